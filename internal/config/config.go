// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"slotter/internal/hours"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Engine   EngineConfig   `toml:"engine"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the user's timezone and working-hour settings.
type ScheduleConfig struct {
	Timezone string `toml:"timezone"` // IANA name, e.g. "America/New_York"
	// Hours maps lowercase weekday names to working windows. Empty means
	// 9-17 every day; a day missing from a non-empty map is a day off.
	Hours hours.WeekHours `toml:"hours"`
	// Awake hours bound same-day placements after the working window
	// closes.
	AwakeStartHour int `toml:"awake_start_hour"` // e.g. 7
	AwakeEndHour   int `toml:"awake_end_hour"`   // e.g. 23
}

// EngineConfig holds the scheduling engine tunables.
type EngineConfig struct {
	MaxDays         int `toml:"max_days"`          // forward/backward search horizon
	MaxCascadeDays  int `toml:"max_cascade_days"`  // reflow spill-over bound
	MaxShuffleDepth int `toml:"max_shuffle_depth"` // displacement chain ceiling
	BudgetSeconds   int `toml:"budget_seconds"`    // wall-clock allowance per run
	LookaheadDays   int `toml:"lookahead_days"`    // pull-forward backlog window
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Timezone:       "Local",
			Hours:          nil,
			AwakeStartHour: 7,
			AwakeEndHour:   23,
		},
		Engine: EngineConfig{
			MaxDays:         30,
			MaxCascadeDays:  7,
			MaxShuffleDepth: 100,
			BudgetSeconds:   30,
			LookaheadDays:   14,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slotter.db"
	}
	return filepath.Join(home, ".local", "share", "slotter", "slotter.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "slotter", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLOTTER_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("SLOTTER_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SLOTTER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := envInt("SLOTTER_MAX_DAYS"); ok {
		cfg.Engine.MaxDays = v
	}
	if v, ok := envInt("SLOTTER_BUDGET_SECONDS"); ok {
		cfg.Engine.BudgetSeconds = v
	}
	if v, ok := envInt("SLOTTER_LOOKAHEAD_DAYS"); ok {
		cfg.Engine.LookaheadDays = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Schedule.Timezone, err)
	}
	if err := c.Schedule.Hours.Validate(); err != nil {
		return err
	}

	a := hours.Window{StartHour: c.Schedule.AwakeStartHour, EndHour: c.Schedule.AwakeEndHour}
	if !a.Valid() {
		return fmt.Errorf("invalid awake hours: %d-%d", a.StartHour, a.EndHour)
	}

	if c.Engine.MaxDays <= 0 {
		return errors.New("max_days must be positive")
	}
	if c.Engine.MaxCascadeDays <= 0 {
		return errors.New("max_cascade_days must be positive")
	}
	if c.Engine.MaxShuffleDepth <= 0 {
		return errors.New("max_shuffle_depth must be positive")
	}
	if c.Engine.BudgetSeconds <= 0 {
		return errors.New("budget_seconds must be positive")
	}
	if c.Engine.LookaheadDays <= 0 {
		return errors.New("lookahead_days must be positive")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// AwakeWindow returns the configured awake hours as a window.
func (c *Config) AwakeWindow() hours.Window {
	return hours.Window{
		StartHour: c.Schedule.AwakeStartHour,
		EndHour:   c.Schedule.AwakeEndHour,
	}
}

// Budget returns the engine's wall-clock allowance.
func (c *Config) Budget() time.Duration {
	return time.Duration(c.Engine.BudgetSeconds) * time.Second
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
