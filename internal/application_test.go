package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-td/internal/agent"
	"github.com/rocketscienceinc/tictactoe-td/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-td/internal/config"
	"github.com/rocketscienceinc/tictactoe-td/internal/entity"
)

func newTestConfig() *config.Config {
	return &config.Config{
		LogLevel: "info",
		Seed:     3,
		Training: config.Training{Epochs: 50, ReportEvery: 25},
		Agents: config.Agents{
			Cross:   agent.Config{LearningRate: 0.1, Epsilon: 0.01},
			Noughts: agent.Config{LearningRate: 0.1, Epsilon: 0.01},
		},
	}
}

func TestTrain(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Trains without storage", func(t *testing.T) {
		// Given: redis and metrics disabled
		conf := newTestConfig()

		// When: training
		run, err := Train(context.Background(), logger, conf)
		require.NoError(t, err)

		// Then: the run finished with two report windows
		assert.Equal(t, entity.StatusFinished, run.Status)
		assert.Equal(t, 50, run.Played)
		assert.Len(t, run.Windows, 2)
	})

	t.Run("Rejects invalid agent parameters", func(t *testing.T) {
		conf := newTestConfig()
		conf.Agents.Noughts.Epsilon = 1.5

		_, err := Train(context.Background(), logger, conf)
		assert.ErrorIs(t, err, apperror.ErrInvalidParameter)
	})

	t.Run("Requires a redis host when storage is enabled", func(t *testing.T) {
		conf := newTestConfig()
		conf.Redis.Enabled = true

		_, err := Train(context.Background(), logger, conf)
		assert.ErrorIs(t, err, ErrAddrNotFound)
	})

	t.Run("Canceled context returns the partial run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run, err := Train(ctx, logger, newTestConfig())
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, run)
		assert.Equal(t, entity.StatusCanceled, run.Status)
	})
}
