package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"slotter/internal/task"
)

func (a *App) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done [task-id]",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.UpdateTaskStatus(context.Background(), args[0], task.StatusCompleted); err != nil {
				return err
			}
			fmt.Printf("Completed task %s\n", shortID(args[0]))
			return nil
		},
	}
}

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [task-id]",
		Short: "Cancel a task",
		Long: `Cancel a task. Its calendar interval becomes free for other
placements, but the record is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.UpdateTaskStatus(context.Background(), args[0], task.StatusCancelled); err != nil {
				return err
			}
			fmt.Printf("Cancelled task %s\n", shortID(args[0]))
			return nil
		},
	}
}

func (a *App) lockCmd() *cobra.Command {
	var unlock bool

	cmd := &cobra.Command{
		Use:   "lock [task-id]",
		Short: "Lock a task's interval in place",
		Long: `Lock a task so the shuffler and reflow never move it. Use
--unlock to make it movable again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.SetTaskLocked(context.Background(), args[0], !unlock); err != nil {
				return err
			}
			verb := "Locked"
			if unlock {
				verb = "Unlocked"
			}
			fmt.Printf("%s task %s\n", verb, shortID(args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unlock, "unlock", false, "Unlock instead")

	return cmd
}
