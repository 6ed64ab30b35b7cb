package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.RootURL)
	assert.Equal(t, 24*30*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, cfg.RootURL, cfg.BackendURL())
	assert.Nil(t, cfg.OAuth())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POBBIN_ROOT_URL", "https://pobb.in/")
	t.Setenv("POBBIN_REDIS_DB", "3")
	t.Setenv("POBBIN_API_TIMEOUT_SECONDS", "nope")
	t.Setenv("POBBIN_RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("POBBIN_OAUTH_CLIENT_ID", "pobbin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://pobb.in", cfg.RootURL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 2.5, cfg.RateLimitPerSecond)

	oauth := cfg.OAuth()
	require.NotNil(t, oauth)
	assert.Equal(t, "https://pobb.in/oauth2/code/poe", oauth.RedirectURL)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POBBIN_LISTEN_ADDR=:9090\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("POBBIN_LISTEN_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
