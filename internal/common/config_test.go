package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.True(t, cfg.NER.Enabled)
	assert.Equal(t, 8, cfg.NER.MaxCandidates)
	assert.Equal(t, 64, cfg.Pool.QueueSize)
	assert.Equal(t, 3*time.Minute, cfg.Pool.JobTimeout)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cvx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ocr:
  dpi: 200
pool:
  workers: 2
output:
  phone_region: gb
log:
  format: json
`), 0o644))
	t.Setenv("CVX_POOL_WORKERS", "6")
	t.Setenv("TESSDATA_PREFIX", "/usr/share/tessdata")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.OCR.DPI)
	assert.Equal(t, 6, cfg.Pool.Workers)
	assert.Equal(t, "GB", cfg.Output.PhoneRegion)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/usr/share/tessdata", cfg.OCR.TessdataDir)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("CVX_OCR_DPI", "10")
	_, err := LoadConfig(viper.New(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	t.Setenv("CVX_OCR_DPI", "300")
	t.Setenv("CVX_CACHE_ENABLED", "true")
	_, err = LoadConfig(viper.New(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, CodeConfig, appErr.Code)
}

func TestContextValues(t *testing.T) {
	ctx := WithSource(WithRunID(context.Background(), "run-1"), "/cvs/a.pdf")
	assert.Equal(t, "run-1", RunIDFromContext(ctx))
	assert.Equal(t, "/cvs/a.pdf", SourceFromContext(ctx))
	assert.Empty(t, RunIDFromContext(context.Background()))
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cvx.log")
	logger := NewLogger(LogConfig{Level: "debug", Format: "json", File: file, MaxSizeMB: 1, MaxBackups: 1})
	logger.Debug("document loaded", "method", "text")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"document loaded"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("debug").String())
	assert.Equal(t, "WARN", ParseLevel(" Warning ").String())
	assert.Equal(t, "INFO", ParseLevel("").String())
}
