package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	content := `default_project: thesis
digest_days: 14
stale_days: 10
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "thesis", cfg.DefaultProject)
	assert.Equal(t, 14, cfg.DigestDays)
	assert.Equal(t, 10, cfg.StaleDays)
	assert.Equal(t, "15:04", cfg.TimeFormat)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("digest_days: [oops"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Default()
	cfg.DefaultProject = "lab"

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestProjectResolution(t *testing.T) {
	cfg := &Config{DefaultProject: "fallback"}

	t.Setenv("LABBOOK_PROJECT", "")
	assert.Equal(t, "fallback", cfg.Project(""))

	t.Setenv("LABBOOK_PROJECT", "env")
	assert.Equal(t, "env", cfg.Project(""))
	assert.Equal(t, "flag", cfg.Project("flag"))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, (&Config{}).Level())
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "INFO"}).Level())
	assert.Equal(t, slog.LevelError, (&Config{LogLevel: "error"}).Level())
}
