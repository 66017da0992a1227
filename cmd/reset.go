package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a player's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if !yes {
			fmt.Printf("This clears all progress for player %q. Re-run with --yes to confirm.\n", cfg.Player)
			return nil
		}

		ctx := cmd.Context()
		tracker, err := progress.Load(ctx, s.Documents(), cfg.Player)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if err := tracker.Reset(ctx); err != nil {
			return err
		}
		fmt.Printf("Progress for %q cleared.\n", cfg.Player)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
}
