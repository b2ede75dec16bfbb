package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"slotter/internal/hours"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.MaxDays != 30 {
		t.Errorf("MaxDays = %d, want 30", cfg.Engine.MaxDays)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[schedule]
timezone = "America/New_York"

[schedule.hours.monday]
start_hour = 10
end_hour = 18

[engine]
max_days = 14

[storage]
db_path = "/tmp/slotter-test.db"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Schedule.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q", cfg.Schedule.Timezone)
	}
	win, ok := cfg.Schedule.Hours.Resolve(timeWeekday(t, "monday"))
	if !ok || win.StartHour != 10 || win.EndHour != 18 {
		t.Errorf("monday window = %+v, %v", win, ok)
	}
	if _, ok := cfg.Schedule.Hours.Resolve(timeWeekday(t, "saturday")); ok {
		t.Error("days absent from a configured map should be off")
	}
	if cfg.Engine.MaxDays != 14 {
		t.Errorf("MaxDays = %d, want 14", cfg.Engine.MaxDays)
	}
	// Unset sections keep their defaults.
	if cfg.Engine.LookaheadDays != 14 {
		t.Errorf("LookaheadDays = %d, want default 14", cfg.Engine.LookaheadDays)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Log.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SLOTTER_TIMEZONE", "UTC")
	t.Setenv("SLOTTER_DB_PATH", "/tmp/env.db")
	t.Setenv("SLOTTER_MAX_DAYS", "5")
	t.Setenv("SLOTTER_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Schedule.Timezone != "UTC" {
		t.Errorf("Timezone = %q", cfg.Schedule.Timezone)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("DBPath = %q", cfg.Storage.DBPath)
	}
	if cfg.Engine.MaxDays != 5 {
		t.Errorf("MaxDays = %d", cfg.Engine.MaxDays)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }, true},
		{"bad weekday key", func(c *Config) {
			c.Schedule.Hours = hours.WeekHours{"someday": &hours.Window{StartHour: 9, EndHour: 17}}
		}, true},
		{"inverted window", func(c *Config) {
			c.Schedule.Hours = hours.WeekHours{"monday": &hours.Window{StartHour: 17, EndHour: 9}}
		}, true},
		{"inverted awake hours", func(c *Config) { c.Schedule.AwakeStartHour = 23; c.Schedule.AwakeEndHour = 7 }, true},
		{"zero max days", func(c *Config) { c.Engine.MaxDays = 0 }, true},
		{"zero budget", func(c *Config) { c.Engine.BudgetSeconds = 0 }, true},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.Schedule.Timezone = "Europe/Madrid"
	cfg.Engine.LookaheadDays = 21
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Schedule.Timezone != "Europe/Madrid" {
		t.Errorf("Timezone = %q", got.Schedule.Timezone)
	}
	if got.Engine.LookaheadDays != 21 {
		t.Errorf("LookaheadDays = %d", got.Engine.LookaheadDays)
	}
}

func timeWeekday(t *testing.T, name string) time.Weekday {
	t.Helper()
	wd, err := hours.ParseWeekday(name)
	if err != nil {
		t.Fatalf("ParseWeekday(%q): %v", name, err)
	}
	return wd
}
