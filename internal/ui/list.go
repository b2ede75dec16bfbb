package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by day",
		Long: `List every task, scheduled ones grouped by calendar day,
unscheduled ones at the end.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			tasks, err := a.repo.ListTasks(context.Background())
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			var currentDate string
			printedUnscheduled := false
			for _, t := range tasks {
				if !t.Scheduled() {
					if !printedUnscheduled {
						if currentDate != "" {
							fmt.Println()
						}
						fmt.Println("=== unscheduled ===")
						printedUnscheduled = true
					}
					fmt.Printf("  %s %s %s (%d min)\n", statusSymbol(t.Status), shortID(t.ID), t.Title, t.DurationMinutes)
					continue
				}

				c := a.proj.Project(t.Slot().Start)
				date := fmt.Sprintf("%04d-%02d-%02d", c.Year, c.Month, c.Day)
				if date != currentDate {
					if currentDate != "" {
						fmt.Println()
					}
					fmt.Printf("=== %s (%s) ===\n", date, c.Weekday)
					currentDate = date
				}

				start := a.proj.Project(t.Slot().Start)
				end := a.proj.Project(t.Slot().End)
				lock := ""
				if t.Locked {
					lock = " [locked]"
				}
				fmt.Printf("  %s %s %02d:%02d-%02d:%02d %s%s\n",
					statusSymbol(t.Status), shortID(t.ID),
					start.Hour, start.Minute, end.Hour, end.Minute,
					t.Title, lock)
			}

			return nil
		},
	}
}
