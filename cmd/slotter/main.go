package main

import (
	"fmt"
	"os"

	"slotter/internal/config"
	"slotter/internal/db"
	"slotter/internal/logging"
	"slotter/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Log.Level)

	repo, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	app, err := ui.NewApp(repo, cfg, log)
	if err != nil {
		_ = repo.Close()
		return err
	}
	defer func() { _ = app.Close() }()

	return app.Execute()
}
