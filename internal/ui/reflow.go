package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) reflowCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "reflow [date]",
		Short: "Re-pack a day's movable tasks",
		Long: `Re-pack every movable task on the given day into the earliest
available intervals, in start-time order. Tasks that no longer fit
spill over to the following days.`,
		Example: `  slotter reflow 2025-01-06
  slotter reflow 2025-01-06 --apply`,
		Args: cobra.ExactArgs(1),
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

			res, err := a.engine.ReflowDay(snap, day)
			printFeedback(res)
			if err != nil {
				return err
			}

			a.printDisplacements(snap, res)

			if !apply {
				if len(res.Displaced) > 0 {
					fmt.Println("\nDry run; re-run with --apply to persist.")
				}
				return nil
			}

			if err := a.repo.ApplySlots(ctx, res.Updates("")); err != nil {
				return fmt.Errorf("applying slots: %w", err)
			}
			a.log.Info().Str("day", args[0]).
				Int("moved", len(res.Displaced)).Msg("reflow applied")
			fmt.Println("\nApplied.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the resulting intervals")

	return cmd
}
