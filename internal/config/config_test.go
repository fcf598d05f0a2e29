package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads")
	writeConfig(t, dir, `
server:
  mode: debug
jwt:
  secret: short
  expire_hours: 2
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, int64(20), cfg.Storage.MaxUploadMB)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, DefaultAutoGradeFeedback, cfg.Grading.AutoGradeFeedback)
	assert.Equal(t, 7, cfg.Grading.UpcomingDays)
	assert.DirExists(t, uploads)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  mode: release
jwt:
  secret: short
storage:
  type: minio
`)
	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
server:
  mode: debug
storage:
  type: minio
grading:
  upcoming_days: 14
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=lms_from_env\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DATABASE_NAME") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "lms_from_env", cfg.Database.DBName)
	assert.Equal(t, 14, cfg.Grading.UpcomingDays)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
