package ui

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slotter/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		minutes   int
		due       string
		groupID   string
		dependsOn []string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task to the board. Tasks start pending and unscheduled;
use the schedule command to place them on the calendar.`,
		Example: `  slotter add "Write report" --minutes=90
  slotter add "Review draft" --minutes=30 --due=2025-01-10 --depends=4f2a...`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			t, err := task.New(uuid.NewString(), args[0], minutes)
			if err != nil {
				return err
			}
			t.GroupID = groupID
			t.DependsOn = dependsOn

			if due != "" {
				day, err := a.parseDate(due)
				if err != nil {
					return err
				}
				// Due at end of the working day unless stated otherwise.
				d := a.proj.EndOfDay(day)
				t.DueDate = &d
			}

			ctx := context.Background()
			if err := a.repo.CreateTask(ctx, t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Printf("Created task %s: %s (%d min)\n", t.ID, t.Title, t.DurationMinutes)
			return nil
		},
	}

	cmd.Flags().IntVar(&minutes, "minutes", 0, "Task duration in minutes")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&groupID, "group", "", "Group id")
	cmd.Flags().StringSliceVar(&dependsOn, "depends", nil, "Task ids this task depends on")

	return cmd
}
