package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
	"github.com/rocketscienceinc/tictactoe-td/internal/selfplay"
)

const (
	outcomeCross   = "cross"
	outcomeNoughts = "noughts"
	outcomeTie     = "tie"
)

// Recorder exposes training progress as Prometheus metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	episodes       *prometheus.CounterVec
	turns          prometheus.Histogram
	winRate        *prometheus.GaugeVec
	elo            prometheus.Gauge
	backupDuration prometheus.Histogram
}

func New() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		episodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tictactoe_episodes_total",
			Help: "Self-play episodes by outcome",
		}, []string{"outcome"}),

		turns: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tictactoe_episode_turns",
			Help:    "Turns played per episode",
			Buckets: []float64{5, 6, 7, 8, 9},
		}),

		winRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tictactoe_win_rate",
			Help: "Win rate over the last report window",
		}, []string{"marker"}),

		elo: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tictactoe_cross_elo",
			Help: "Cross's Elo difference over noughts in the last report window",
		}),

		backupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tictactoe_backup_duration_seconds",
			Help:    "Time spent backing up both agents after an episode",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01},
		}),
	}
}

func (that *Recorder) Registry() *prometheus.Registry {
	return that.registry
}

func (that *Recorder) ObserveEpisode(result selfplay.Result) {
	that.episodes.WithLabelValues(outcomeLabel(result.Winner)).Inc()
	that.turns.Observe(float64(result.Turns))
}

func (that *Recorder) ObserveBackup(duration time.Duration) {
	that.backupDuration.Observe(duration.Seconds())
}

func (that *Recorder) ObserveWindow(window entity.Window) {
	that.winRate.WithLabelValues(outcomeCross).Set(window.CrossWinRate)
	that.winRate.WithLabelValues(outcomeNoughts).Set(window.NoughtsWinRate)
	that.elo.Set(window.Elo)
}

func outcomeLabel(winner entity.Marker) string {
	switch winner {
	case entity.Cross:
		return outcomeCross
	case entity.Noughts:
		return outcomeNoughts
	default:
		return outcomeTie
	}
}
