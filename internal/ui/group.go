package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slotter/internal/hours"
	"slotter/internal/task"
)

func (a *App) groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage task groups",
	}
	cmd.AddCommand(a.groupAddCmd())
	cmd.AddCommand(a.groupListCmd())
	cmd.AddCommand(a.groupHoursCmd())
	return cmd
}

func (a *App) groupAddCmd() *cobra.Command {
	var autoSchedule bool

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g := &task.Group{
				ID:           uuid.NewString(),
				Name:         args[0],
				AutoSchedule: autoSchedule,
			}
			if err := a.repo.CreateGroup(context.Background(), g); err != nil {
				return fmt.Errorf("creating group: %w", err)
			}
			fmt.Printf("Created group %s: %s\n", g.ID, g.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoSchedule, "auto-schedule", false, "Apply the group's hours when scheduling its tasks")

	return cmd
}

func (a *App) groupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(_ *cobra.Command, _ []string) error {
			groups, err := a.repo.ListGroups(context.Background())
			if err != nil {
				return fmt.Errorf("listing groups: %w", err)
			}
			if len(groups) == 0 {
				fmt.Println("No groups.")
				return nil
			}
			for _, g := range groups {
				auto := ""
				if g.AutoSchedule {
					auto = " [auto-schedule]"
				}
				fmt.Printf("%s %s%s\n", shortID(g.ID), g.Name, auto)
				for day, win := range g.Hours {
					if win != nil {
						fmt.Printf("    %-9s %02d:00-%02d:00\n", day, win.StartHour, win.EndHour)
					}
				}
			}
			return nil
		},
	}
}

func (a *App) groupHoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hours [group-id] [day=start-end]...",
		Short: "Replace a group's working hours",
		Long: `Replace a group's weekly working hours. Each argument sets one
day's window in whole hours; days not mentioned become days off.`,
		Example: `  slotter group hours 8c1d... monday=9-17 tuesday=9-17 friday=9-13`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			h := make(hours.WeekHours)
			for _, arg := range args[1:] {
				day, win, err := parseDayWindow(arg)
				if err != nil {
					return err
				}
				h[day] = win
			}

			if err := a.repo.SetGroupHours(context.Background(), args[0], h); err != nil {
				return fmt.Errorf("setting group hours: %w", err)
			}
			fmt.Printf("Updated hours for group %s (%d working days)\n", shortID(args[0]), len(h))
			return nil
		},
	}
}

// parseDayWindow parses "monday=9-17" into a weekday key and window.
func parseDayWindow(s string) (string, *hours.Window, error) {
	day, rng, ok := strings.Cut(s, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid hours %q, want day=start-end", s)
	}
	if _, err := hours.ParseWeekday(day); err != nil {
		return "", nil, err
	}

	startStr, endStr, ok := strings.Cut(rng, "-")
	if !ok {
		return "", nil, fmt.Errorf("invalid hours %q, want day=start-end", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return "", nil, fmt.Errorf("invalid start hour in %q", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return "", nil, fmt.Errorf("invalid end hour in %q", s)
	}

	win := hours.Window{StartHour: start, EndHour: end}
	if !win.Valid() {
		return "", nil, fmt.Errorf("invalid window in %q: hours must satisfy 0 <= start < end <= 24", s)
	}
	return strings.ToLower(strings.TrimSpace(day)), &win, nil
}
