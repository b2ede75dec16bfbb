// Package ui implements the slotter command-line interface.
package ui

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"slotter/internal/civil"
	"slotter/internal/config"
	"slotter/internal/engine"
	"slotter/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   task.Repository
	config *config.Config
	log    zerolog.Logger
	proj   *civil.Projector
	engine *engine.Engine
	root   *cobra.Command
}

// NewApp creates a new CLI application with the given repository and config.
func NewApp(repo task.Repository, cfg *config.Config, log zerolog.Logger) (*App, error) {
	proj, err := civil.NewProjector(cfg.Schedule.Timezone)
	if err != nil {
		return nil, err
	}

	awake := cfg.AwakeWindow()
	eng := engine.New(proj, engine.SystemClock(), engine.Options{
		MaxDays:         cfg.Engine.MaxDays,
		MaxCascadeDays:  cfg.Engine.MaxCascadeDays,
		MaxShuffleDepth: cfg.Engine.MaxShuffleDepth,
		Budget:          cfg.Budget(),
		LookaheadDays:   cfg.Engine.LookaheadDays,
		DefaultHours:    cfg.Schedule.Hours,
		AwakeHours:      &awake,
	})

	a := &App{repo: repo, config: cfg, log: log, proj: proj, engine: eng}

	a.root = &cobra.Command{
		Use:   "slotter",
		Short: "A calendar slot finder for tasks",
		Long: `Slotter places tasks with fixed durations onto your calendar.

It finds free intervals inside your working hours, displaces movable
tasks when you need a slot right now, re-packs whole days, and pulls
future work forward into free capacity.`,
		SilenceUsage: true,
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.reflowCmd())
	a.root.AddCommand(a.pullCmd())
	a.root.AddCommand(a.groupCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.lockCmd())

	return a, nil
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("slotter %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the application's resources.
func (a *App) Close() error {
	if a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// snapshot loads the full task board from the repository.
func (a *App) snapshot(ctx context.Context) (*task.Snapshot, error) {
	tasks, err := a.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	groupList, err := a.repo.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	deps, err := a.repo.ListDependencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}

	groups := make(map[string]*task.Group, len(groupList))
	for _, g := range groupList {
		groups[g.ID] = g
	}
	return task.NewSnapshot(tasks, groups, deps), nil
}
