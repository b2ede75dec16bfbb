package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"slotter/internal/engine"
)

func (a *App) scheduleCmd() *cobra.Command {
	var (
		mode  string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "schedule [task-id]",
		Short: "Find a calendar slot for a task",
		Long: `Find a calendar slot for a task using the given mode.

Modes: now, today, tomorrow, next-week, next-month, due-date, asap,
optimal. The asap mode displaces conflicting movable tasks and prints
every move; --apply persists the whole batch atomically.`,
		Example: `  slotter schedule 4f2a... --mode=today
  slotter schedule 4f2a... --mode=asap --apply`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := engine.ParseMode(mode)
			if err != nil {
				return err
			}

			ctx := context.Background()
			snap, err := a.snapshot(ctx)
			if err != nil {
				return err
			}

			res, err := a.engine.Schedule(snap, args[0], m)
			printFeedback(res)
			if err != nil {
				return err
			}

			a.printPlacement(snap, args[0], res)

			if !apply {
				if len(res.Updates(args[0])) > 0 {
					fmt.Println("\nDry run; re-run with --apply to persist.")
				}
				return nil
			}

			if err := a.repo.ApplySlots(ctx, res.Updates(args[0])); err != nil {
				return fmt.Errorf("applying slots: %w", err)
			}
			a.log.Info().Str("task", args[0]).Str("mode", mode).
				Int("displaced", len(res.Displaced)).Msg("schedule applied")
			fmt.Println("\nApplied.")
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "asap", "Scheduling mode")
	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the resulting intervals")

	return cmd
}
