package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-td/internal/config"
)

func discardLogger(*config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoot(t *testing.T) {
	t.Run("States prints the enumeration summary", func(t *testing.T) {
		// Given: the root command with the states subcommand
		root := Root("config.yml", discardLogger)
		out := &bytes.Buffer{}
		root.SetOut(out)
		root.SetArgs([]string{"states"})

		// When: executing it
		require.NoError(t, root.Execute())

		// Then: the known totals are printed
		assert.Contains(t, out.String(), "states:       5478")
		assert.Contains(t, out.String(), "terminal:     958")
		assert.Contains(t, out.String(), "ties:         16")
	})

	t.Run("Train honors the epochs override", func(t *testing.T) {
		// Given: a missing config file, so defaults apply
		var loaded *config.Config
		newLogger := func(conf *config.Config) *slog.Logger {
			loaded = conf
			return discardLogger(conf)
		}

		root := Root(filepath.Join(t.TempDir(), "missing.yml"), newLogger)
		root.SetArgs([]string{"train", "--epochs", "20"})

		// When: executing it
		require.NoError(t, root.Execute())

		// Then: the override reached the config
		require.NotNil(t, loaded)
		assert.Equal(t, 20, loaded.Training.Epochs)
	})

	t.Run("Train panics on a broken config file", func(t *testing.T) {
		// Given: a config file that is not valid yml
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("training: [unterminated"), 0o600))

		root := Root(path, discardLogger)
		root.SetArgs([]string{"train"})

		// Then: loading fails loudly, like the entry point expects
		assert.Panics(t, func() {
			_ = root.Execute()
		})
	})

	t.Run("Rejects unknown arguments", func(t *testing.T) {
		root := Root("config.yml", discardLogger)
		root.SetArgs([]string{"states", "extra"})

		assert.Error(t, root.Execute())
	})
}
