package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config directory at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 250*time.Millisecond, cfg.Timer.Tick)
	assert.Equal(t, 10, cfg.Store.KeepRevisions)
}

func TestLoadFromDefaultDir(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lexa"), 0o755))
	yaml := "log:\n  level: debug\ndashboard:\n  upcoming_limit: 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lexa", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Dashboard.UpcomingLimit)
	assert.Equal(t, "json", cfg.Log.Format, "unset keys keep defaults")
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := "db: /tmp/grades.db\ntimer:\n  tick: 1s\nplanner:\n  default_weekly_hours: 2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/grades.db", cfg.DB)
	assert.Equal(t, time.Second, cfg.Timer.Tick)
	assert.Equal(t, 2.5, cfg.Planner.DefaultWeeklyHours)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	t.Setenv("LEXA_LOG_LEVEL", "error")
	t.Setenv("LEXA_STORE_KEEP_REVISIONS", "3")
	t.Setenv("LEXA_DB", "/data/lexa.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Store.KeepRevisions)
	assert.Equal(t, "/data/lexa.db", cfg.DB)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"keep revisions", func(c *Config) { c.Store.KeepRevisions = 0 }},
		{"tick", func(c *Config) { c.Timer.Tick = 0 }},
		{"weekly hours", func(c *Config) { c.Planner.DefaultWeeklyHours = -1 }},
		{"upcoming limit", func(c *Config) { c.Dashboard.UpcomingLimit = 0 }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("LEXA_TIMER_TICK", "-1s")

	_, err := Load("")
	assert.Error(t, err)
}
