package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FIREBASE_PROJECT_ID", "medictrans-test")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "medictrans-test", cfg.Firebase.ProjectID)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Auth.RoleCacheTTL)
	assert.Equal(t, "https://medictrans-oncall.com", cfg.Mail.SiteURL)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("SERVER_PORT", "")
	yaml := []byte(`
server:
  port: 8181
  request_timeout: 5s
firebase:
  project_id: from-file
redis:
  url: redis://localhost:6379/0
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "from-file", cfg.Firebase.ProjectID)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.ToBrokerConfig().URL)
}

func TestLoadConfigRequiresProject(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := LoadConfig()

	assert.Error(t, err)
}
