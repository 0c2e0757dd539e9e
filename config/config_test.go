package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/config"
)

var keys = []string{"APP_PORT", "APP_ENV", "LOG_LEVEL", "COMPANY_ID", "DB_PATH", "CORS_ORIGINS", "BATCH_WORKERS", "BATCH_MAX_SIZE"}

// clearEnv blanks every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data/payroll.db", cfg.Database.Path)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, 0, cfg.Batch.Workers)
	assert.Equal(t, 500, cfg.Batch.MaxSize)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=9090\nLOG_LEVEL=debug\nCORS_ORIGINS=https://a.example, https://b.example\nBATCH_WORKERS=4\n"), 0o600))

	// GIVEN: the environment overrides the file
	t.Setenv("BATCH_WORKERS", "8")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, 8, cfg.Batch.Workers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_PORT", "http"},
		{"APP_PORT", "70000"},
		{"BATCH_WORKERS", "many"},
		{"BATCH_MAX_SIZE", "0"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
