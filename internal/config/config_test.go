package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	for _, k := range []string{"VOCSEED_API_URL", "VOCSEED_DB", "VOCSEED_DATA_DIR", "VOCSEED_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
dir = "/srv/voc"

[schedule]
start = "2025-07-01"
seed = 42

[load]
target = "db"
delay_ms = 0
`), 0644))
	t.Setenv("VOCSEED_API_URL", "")
	t.Setenv("VOCSEED_DATA_DIR", "")
	t.Setenv("VOCSEED_DB", "/tmp/voc.db")
	t.Setenv("VOCSEED_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/voc", cfg.Data.Dir)
	assert.Equal(t, "*.json", cfg.Data.Pattern, "unset keys keep defaults")
	assert.Equal(t, "2025-07-01", cfg.Schedule.Start)
	assert.Equal(t, "2025-09-12", cfg.Schedule.End)
	assert.Equal(t, uint64(42), cfg.Schedule.Seed)
	assert.Equal(t, "db", cfg.Load.Target)
	assert.Zero(t, cfg.Load.DelayMS)
	assert.Equal(t, "/tmp/voc.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)

	dbPath, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/voc.db", dbPath)
}

func TestLoadFrom_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[schedule\nstart ="), 0644))
	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestWriteDefaultAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocseed", "config.toml")
	require.NoError(t, WriteDefault(path))

	require.NoError(t, Set(path, "schedule.seed", "7"))
	require.NoError(t, Set(path, "notifications.enabled", "true"))
	require.NoError(t, Set(path, "api.base_url", "http://voc.internal/api"))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Schedule.Seed)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "http://voc.internal/api", cfg.API.BaseURL)
	assert.Equal(t, "2025-08-01", cfg.Schedule.Start, "other settings survive")

	assert.Error(t, Set(path, "seed", "1"))
	assert.Error(t, Set(path, "schedule.seed", "soon"))

	// Existing files are left alone.
	require.NoError(t, WriteDefault(path))
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Schedule.Seed)
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, time.September, 12, 15, 0, 0, 0, time.UTC)

	got, err := ParseDate("2025-08-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", got.Format("2006-01-02"))

	got, err = ParseDate("6 weeks ago", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", got.Format("2006-01-02"))

	_, err = ParseDate("xyzzy", now)
	assert.Error(t, err)
}

func TestConfig_DateRange(t *testing.T) {
	cfg := DefaultConfig()
	r, err := cfg.DateRange(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 43, r.TotalDays())

	cfg.Schedule.Start, cfg.Schedule.End = "2025-09-12", "2025-08-01"
	_, err = cfg.DateRange(time.Now())
	assert.Error(t, err)
}
