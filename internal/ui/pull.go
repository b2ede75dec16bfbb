package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) pullCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "pull [date] [group-id]",
		Short: "Pull a group's future tasks into a day's free capacity",
		Long: `Fill the given day's remaining working hours with the group's
scheduled tasks from later days, earliest first, until the next task
no longer fits.`,
		Example: `  slotter pull 2025-01-06 8c1d...
  slotter pull 2025-01-06 8c1d... --apply`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := a.parseDate(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}

			res, err := a.engine.PullForward(snap, day, args[1])
			printFeedback(res)
			if err != nil {
				return err
			}

			if len(res.Displaced) == 0 {
				fmt.Println("Nothing to pull forward.")
				return nil
			}
			a.printDisplacements(snap, res)

			if !apply {
				fmt.Println("\nDry run; re-run with --apply to persist.")
				return nil
			}

			if err := a.repo.ApplySlots(ctx, res.Updates("")); err != nil {
				return fmt.Errorf("applying slots: %w", err)
			}
			a.log.Info().Str("day", args[0]).Str("group", args[1]).
				Int("pulled", len(res.Displaced)).Msg("pull applied")
			fmt.Println("\nApplied.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the resulting intervals")

	return cmd
}
