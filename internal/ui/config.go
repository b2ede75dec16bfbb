package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slotter/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or initialize configuration",
	}
	cmd.AddCommand(a.configShowCmd())
	cmd.AddCommand(a.configInitCmd())
	return cmd
}

func (a *App) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("Config file: %s\n\n", config.DefaultConfigPath())
			printConfig(a.config)
			return nil
		},
	}
}

func (a *App) configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current values",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}
			if err := a.config.SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}

func printConfig(cfg *config.Config) {
	fmt.Println("[schedule]")
	fmt.Printf("  timezone          = %s\n", cfg.Schedule.Timezone)
	fmt.Printf("  awake_start_hour  = %d\n", cfg.Schedule.AwakeStartHour)
	fmt.Printf("  awake_end_hour    = %d\n", cfg.Schedule.AwakeEndHour)
	if len(cfg.Schedule.Hours) == 0 {
		fmt.Println("  hours             = 09:00-17:00 every day (default)")
	} else {
		for day, win := range cfg.Schedule.Hours {
			if win != nil {
				fmt.Printf("  hours.%-11s = %02d:00-%02d:00\n", day, win.StartHour, win.EndHour)
			}
		}
	}
	fmt.Println("\n[engine]")
	fmt.Printf("  max_days          = %d\n", cfg.Engine.MaxDays)
	fmt.Printf("  max_cascade_days  = %d\n", cfg.Engine.MaxCascadeDays)
	fmt.Printf("  max_shuffle_depth = %d\n", cfg.Engine.MaxShuffleDepth)
	fmt.Printf("  budget_seconds    = %d\n", cfg.Engine.BudgetSeconds)
	fmt.Printf("  lookahead_days    = %d\n", cfg.Engine.LookaheadDays)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path           = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[log]")
	fmt.Printf("  level             = %s\n", cfg.Log.Level)
}
