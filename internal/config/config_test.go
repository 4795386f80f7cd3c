package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: t.Parallel() is intentionally omitted in this package. These tests
// share process-global environment variables via t.Setenv.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 8000, cfg.App.Port)
	assert.Equal(t, "0.0.0.0", cfg.App.BindAddr)
	assert.Equal(t, "app.main:app", cfg.App.EntryPoint)
	assert.Equal(t, "/app", cfg.App.WorkDir)
	assert.Equal(t, 30*time.Second, cfg.App.StartTimeout)
	assert.Equal(t, "requirements.txt", cfg.Builder.ManifestName)
	assert.Equal(t, "python:3.11-slim", cfg.Builder.BaseImage)
	assert.Equal(t, "https://pypi.org/pypi", cfg.Builder.IndexURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PHAROS_SERVER_ADDR", ":9090")
	t.Setenv("PHAROS_BUILDER_BASE_IMAGE", "python:3.12-slim")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "python:3.12-slim", cfg.Builder.BaseImage)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pharos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":4000\"\nlog:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep the contract defaults.
	assert.Equal(t, 8000, cfg.App.Port)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load("/nonexistent/path/pharos.yaml")
	assert.Error(t, err)
}

func TestLoad_RejectsBadContract(t *testing.T) {
	t.Setenv("PHAROS_APP_PORT", "0")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsBadEntryPoint(t *testing.T) {
	t.Setenv("PHAROS_APP_ENTRY_POINT", "justamodule")
	_, err := Load("")
	assert.Error(t, err)
}
