// Package config loads lexa's settings from defaults, an optional YAML
// file and LEXA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEXA_LOG_LEVEL.
const EnvPrefix = "LEXA"

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite file path. Empty means the platform default.
	DB        string          `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Timer     TimerConfig     `mapstructure:"timer"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// LogConfig selects the log level, encoding and destination.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`   // empty: stderr for the CLI, <data dir>/lexa.log for the TUI
}

type StoreConfig struct {
	KeepRevisions int `mapstructure:"keep_revisions"`
}

type TimerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type PlannerConfig struct {
	DefaultWeeklyHours float64 `mapstructure:"default_weekly_hours"`
}

type DashboardConfig struct {
	UpcomingLimit int `mapstructure:"upcoming_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info", Format: "json"},
		Store:     StoreConfig{KeepRevisions: 10},
		Timer:     TimerConfig{Tick: 250 * time.Millisecond},
		Planner:   PlannerConfig{DefaultWeeklyHours: 4},
		Dashboard: DashboardConfig{UpcomingLimit: 5},
	}
}

// Load reads configuration with priority env > file > defaults. An empty
// path looks for config.yaml in the user config directory; a missing file
// there is not an error, but an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("db", d.DB)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("store.keep_revisions", d.Store.KeepRevisions)
	v.SetDefault("timer.tick", d.Timer.Tick)
	v.SetDefault("planner.default_weekly_hours", d.Planner.DefaultWeeklyHours)
	v.SetDefault("dashboard.upcoming_limit", d.Dashboard.UpcomingLimit)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the application cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Store.KeepRevisions < 1:
		return fmt.Errorf("invalid config: store.keep_revisions must be at least 1, got %d", c.Store.KeepRevisions)
	case c.Timer.Tick <= 0:
		return fmt.Errorf("invalid config: timer.tick must be positive, got %s", c.Timer.Tick)
	case c.Planner.DefaultWeeklyHours < 0:
		return fmt.Errorf("invalid config: planner.default_weekly_hours must not be negative, got %g", c.Planner.DefaultWeeklyHours)
	case c.Dashboard.UpcomingLimit < 1:
		return fmt.Errorf("invalid config: dashboard.upcoming_limit must be at least 1, got %d", c.Dashboard.UpcomingLimit)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid config: log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Dir returns the directory searched for config.yaml:
// $XDG_CONFIG_HOME/lexa, falling back to ~/.config/lexa.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "lexa"), nil
}
