package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ClearStagedOnUpload)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout())
	assert.Equal(t, filepath.Join(dir, "config", "futuresight", "prefs.yaml"), cfg.PrefsPath)
	assert.Equal(t, filepath.Join(dir, "cache", "futuresight", "futuresight.log"), cfg.LogFile)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FUTURESIGHT_API_URL", "https://analysis.example.com/")
	t.Setenv("FUTURESIGHT_CLEAR_STAGED_ON_UPLOAD", "true")
	t.Setenv("FUTURESIGHT_HTTP_TIMEOUT", "30")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "https://analysis.example.com", cfg.APIURL)
	assert.True(t, cfg.ClearStagedOnUpload)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://10.0.0.5:9000\nlog_level: debug\n"), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = Load(New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestSearchPathConfigFile(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "futuresight")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "futuresight.yaml"), []byte("clear_staged_on_upload: true\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.True(t, cfg.ClearStagedOnUpload)
}

func TestEmptyAPIURL(t *testing.T) {
	isolate(t)
	v := New()
	v.Set("api_url", "  ")
	_, err := Load(v, "")
	assert.Error(t, err)
}

func TestInitLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "futuresight.log")
	logger, err := InitLogger("debug", path)
	require.NoError(t, err)
	logger.Debug("hello from test")
	Cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello from test")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
