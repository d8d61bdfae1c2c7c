package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/selfplay"
	"github.com/rocketscienceinc/tictactoe-td/internal/stats"
)

type episodePlayer interface {
	Play(ctx context.Context) (selfplay.Result, error)
}

type learner interface {
	Marker() entity.Marker
	Backup() error
}

type runRepo interface {
	CreateOrUpdate(ctx context.Context, run *entity.Run) error
}

type metricsRecorder interface {
	ObserveEpisode(result selfplay.Result)
	ObserveBackup(duration time.Duration)
	ObserveWindow(window entity.Window)
}

type TrainerConfig struct {
	Epochs      int
	ReportEvery int
}

// Trainer runs self-play episodes, backs both learners up after each one and
// reports win rates over fixed windows of episodes.
type Trainer struct {
	logger   *slog.Logger
	game     episodePlayer
	learners []learner
	runRepo  runRepo
	recorder metricsRecorder
	config   TrainerConfig
}

func NewTrainer(logger *slog.Logger, game episodePlayer, runRepo runRepo, recorder metricsRecorder, config TrainerConfig, learners ...learner) *Trainer {
	return &Trainer{
		logger: logger.With("component", "trainer"),

		game:     game,
		learners: learners,
		runRepo:  runRepo,
		recorder: recorder,
		config:   config,
	}
}

// Run trains for the configured number of epochs. On cancellation it
// returns the partial run together with the context's error.
func (that *Trainer) Run(ctx context.Context) (*entity.Run, error) {
	if that.config.Epochs <= 0 || that.config.ReportEvery <= 0 {
		return nil, fmt.Errorf("%w: epochs %d, report every %d", apperror.ErrInvalidParameter, that.config.Epochs, that.config.ReportEvery)
	}

	run := entity.NewRun(uuid.NewString(), that.config.Epochs, time.Now().UTC())
	log := that.logger.With("run_id", run.ID)
	log.Info("training started", "epochs", that.config.Epochs, "report_every", that.config.ReportEvery)

	var window entity.Tally
	from := 1

	for episode := 1; episode <= that.config.Epochs; episode++ {
		if err := ctx.Err(); err != nil {
			return that.cancel(ctx, run, err)
		}

		result, err := that.game.Play(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return that.cancel(ctx, run, ctxErr)
			}

			return nil, fmt.Errorf("failed to play episode %d: %w", episode, err)
		}

		run.Record(result.Winner)
		window.Add(result.Winner)
		that.recorder.ObserveEpisode(result)

		if err = that.backup(); err != nil {
			return nil, fmt.Errorf("failed to back up episode %d: %w", episode, err)
		}

		if episode%that.config.ReportEvery != 0 && episode != that.config.Epochs {
			continue
		}

		report := newWindow(from, episode, window)
		run.Windows = append(run.Windows, report)
		that.recorder.ObserveWindow(report)

		log.Info("window finished",
			"from", report.FromEpisode,
			"to", report.ToEpisode,
			"cross_win_rate", report.CrossWinRate,
			"noughts_win_rate", report.NoughtsWinRate,
			"ties", report.Tally.Ties,
			"elo", report.Elo,
			"elo_error", report.EloError,
		)

		if err = that.saveRun(ctx, run); err != nil {
			return nil, err
		}

		window = entity.Tally{}
		from = episode + 1
	}

	run.Finish()
	if err := that.saveRun(ctx, run); err != nil {
		return nil, err
	}

	log.Info("training finished",
		"cross_wins", run.Totals.CrossWins,
		"noughts_wins", run.Totals.NoughtsWins,
		"ties", run.Totals.Ties,
	)

	return run, nil
}

func (that *Trainer) backup() error {
	started := time.Now()

	for _, l := range that.learners {
		if err := l.Backup(); err != nil {
			return fmt.Errorf("%s: %w", l.Marker().Name(), err)
		}
	}

	that.recorder.ObserveBackup(time.Since(started))

	return nil
}

func (that *Trainer) cancel(ctx context.Context, run *entity.Run, cause error) (*entity.Run, error) {
	run.Cancel()

	// the run context is already done, the report still has to be written
	if err := that.saveRun(context.WithoutCancel(ctx), run); err != nil {
		that.logger.Error("failed to save canceled run", "run_id", run.ID, "error", err)
	}

	that.logger.Info("training canceled", "run_id", run.ID, "played", run.Played)

	return run, cause
}

func (that *Trainer) saveRun(ctx context.Context, run *entity.Run) error {
	if err := that.runRepo.CreateOrUpdate(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

func newWindow(from, to int, tally entity.Tally) entity.Window {
	games := float64(tally.Games())
	lower, elo, upper := stats.Elo(tally.CrossWins, tally.Ties, tally.NoughtsWins)

	return entity.Window{
		FromEpisode:    from,
		ToEpisode:      to,
		Tally:          tally,
		CrossWinRate:   roundRate(float64(tally.CrossWins) / games),
		NoughtsWinRate: roundRate(float64(tally.NoughtsWins) / games),
		Elo:            elo,
		EloError:       stats.ErrorMargin(lower, elo, upper),
	}
}

func roundRate(rate float64) float64 {
	return math.Round(rate*100) / 100
}
