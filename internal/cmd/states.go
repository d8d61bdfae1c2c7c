package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-td/internal/statespace"
)

func States() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "Enumerate every reachable board and print the totals",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, _ []string) error {
			space, err := statespace.Enumerate()
			if err != nil {
				return err
			}

			summary := space.Summary()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "states:       %d\n", summary.States)
			fmt.Fprintf(out, "terminal:     %d\n", summary.Terminal)
			fmt.Fprintf(out, "cross wins:   %d\n", summary.CrossWins)
			fmt.Fprintf(out, "noughts wins: %d\n", summary.NoughtsWins)
			fmt.Fprintf(out, "ties:         %d\n", summary.Ties)

			return nil
		},
	}
}
