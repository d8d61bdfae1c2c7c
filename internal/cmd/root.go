package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-td/internal/config"
)

// LoggerFactory builds the application logger once the config is known.
type LoggerFactory func(conf *config.Config) *slog.Logger

func Root(defaultConfig string, newLogger LoggerFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "tictactoe-td",
		Short: "Train tic-tac-toe agents by temporal-difference self-play",
		Args:  cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringP("config", "c", defaultConfig, "Path to the yml config file")

	root.AddCommand(Train(newLogger))
	root.AddCommand(States())

	return root
}
