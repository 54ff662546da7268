package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Protocol config
	assert.Equal(t, 10<<20, cfg.Protocol.MaxMessageBytes)
	assert.Equal(t, 16, cfg.Protocol.MaxInFlight)
	assert.Equal(t, 10*time.Second, cfg.Protocol.ShutdownTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Protocol.RequestTimeout)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 200, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 400, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault()

	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"FILEIO_PORT":               "9000",
		"FILEIO_HOST":               "127.0.0.1",
		"FILEIO_MAX_MESSAGE_BYTES":  "1048576",
		"FILEIO_MAX_IN_FLIGHT":      "4",
		"FILEIO_SHUTDOWN_TIMEOUT":   "5s",
		"FILEIO_LOG_LEVEL":          "debug",
		"FILEIO_LOG_DEV":            "true",
		"FILEIO_RATE_LIMIT_RPS":     "500",
		"FILEIO_RATE_LIMIT_BURST":   "1000",
		"FILEIO_RATE_LIMIT_ENABLED": "false",
	}

	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 1<<20, cfg.Protocol.MaxMessageBytes)
	assert.Equal(t, 4, cfg.Protocol.MaxInFlight)
	assert.Equal(t, 5*time.Second, cfg.Protocol.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	err := os.Setenv("FILEIO_PORT", "3000")
	require.NoError(t, err)
	defer os.Unsetenv("FILEIO_PORT")

	err = os.Setenv("FILEIO_LOG_LEVEL", "warn")
	require.NoError(t, err)
	defer os.Unsetenv("FILEIO_LOG_LEVEL")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 16, cfg.Protocol.MaxInFlight)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fileio.yaml")
	data := []byte("server:\n  port: \"7070\"\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
