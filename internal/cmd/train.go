package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/tictactoe-td/internal"
	"github.com/rocketscienceinc/tictactoe-td/internal/config"
)

func Train(newLogger LoggerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run self-play training and report win rates",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			conf := config.MustLoad(path)

			if cmd.Flag("epochs").Changed {
				if conf.Training.Epochs, err = cmd.Flags().GetInt("epochs"); err != nil {
					return err
				}
			}

			if err = application.RunApp(newLogger(conf), conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().IntP("epochs", "e", 0, "Override the number of self-play episodes")

	return cmd
}
