package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-td/internal/agent"
	"github.com/rocketscienceinc/tictactoe-td/internal/config"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-td/internal/repository"
	"github.com/rocketscienceinc/tictactoe-td/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-td/internal/selfplay"
	"github.com/rocketscienceinc/tictactoe-td/internal/statespace"
	"github.com/rocketscienceinc/tictactoe-td/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-td/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - trains both agents until the configured epochs are played or the
// process receives SIGINT/SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	run, err := Train(ctx, logger, conf)
	if err != nil {
		if errors.Is(err, context.Canceled) && run != nil {
			log.Info("Training interrupted", "run_id", run.ID, "played", run.Played)
			return nil
		}

		return err
	}

	log.Info("Run stored", "run_id", run.ID, "status", run.Status)

	return nil
}

// Train builds the state space, both agents and the trainer, then runs one
// training session. The metrics server, when enabled, lives as long as the
// session.
func Train(ctx context.Context, logger *slog.Logger, conf *config.Config) (*entity.Run, error) {
	log := logger.With("component", "app")

	space, err := statespace.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("could not enumerate state space: %w", err)
	}

	summary := space.Summary()
	log.Info("State space enumerated", "states", summary.States, "terminal", summary.Terminal)

	cross, noughts, err := newAgents(conf, space)
	if err != nil {
		return nil, err
	}

	game, err := selfplay.New(space, cross, noughts)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	runRepo, closeRepo, err := newRunRepository(ctx, conf)
	if err != nil {
		return nil, err
	}

	defer func() {
		if closeErr := closeRepo(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	recorder := metrics.New()

	if conf.Metrics.Enabled {
		serverCtx, stopServer := context.WithCancel(ctx)
		defer stopServer()

		server := rest.New(logger, conf.Metrics.Port, recorder.Registry())
		go func() {
			if httpErr := server.Start(serverCtx); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
			}
		}()
	}

	trainer := usecase.NewTrainer(logger, game, runRepo, recorder, usecase.TrainerConfig{
		Epochs:      conf.Training.Epochs,
		ReportEvery: conf.Training.ReportEvery,
	}, cross, noughts)

	return trainer.Run(ctx)
}

func newAgents(conf *config.Config, space *statespace.Space) (*agent.Agent, *agent.Agent, error) {
	var crossOpts, noughtsOpts []agent.Option
	if conf.Seed != 0 {
		crossOpts = append(crossOpts, agent.WithRand(rand.New(rand.NewSource(conf.Seed))))
		noughtsOpts = append(noughtsOpts, agent.WithRand(rand.New(rand.NewSource(conf.Seed+1))))
	}

	cross, err := agent.New(entity.Cross, conf.Agents.Cross, space, crossOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create cross agent: %w", err)
	}

	noughts, err := agent.New(entity.Noughts, conf.Agents.Noughts, space, noughtsOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create noughts agent: %w", err)
	}

	return cross, noughts, nil
}

func newRunRepository(ctx context.Context, conf *config.Config) (repository.RunRepository, func() error, error) {
	if !conf.Redis.Enabled {
		return repository.NewDiscardRunRepository(), func() error { return nil }, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if conf.Redis.Host == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewRunRepository(redisStorage.Connection), redisStorage.Close, nil
}
