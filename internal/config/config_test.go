package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_DRIVER", "DATABASE_URL", "HTTP_ADDR", "JWT_SECRET", "JWT_TTL", "ALLOWED_ORIGINS",
		"OUTBOX_PATH", "NOTIFY_WORKERS", "GEMINI_API_KEY", "GEMINI_MODEL",
		"NEO4J_URI", "NEO4J_USER", "NEO4J_PASSWORD", "DEBUG", "FINTRACK_CONFIG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, 2, cfg.Notify.Workers)
	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.GraphEnabled())

	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATABASE_DRIVER=sqlite\nDATABASE_URL=fintrack.db\nJWT_SECRET=abc\nJWT_TTL=2h\nNOTIFY_WORKERS=4\nDEBUG=true\n"), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.True(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("NOTIFY_WORKERS", "many")

	_, err := Load("")
	assert.ErrorContains(t, err, "NOTIFY_WORKERS")
}

func TestYAMLOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JWT_SECRET", "env-secret")

	path := filepath.Join(t.TempDir(), "fintrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: postgres://yaml
http:
  addr: ":9090"
neo4j:
  uri: neo4j://localhost:7687
`), 0o600))
	t.Setenv("FINTRACK_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://yaml", cfg.Database.URL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.GraphEnabled())
}

func TestValidateDriver(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql", URL: "x"},
		Auth:     AuthConfig{JWTSecret: "s"},
		Notify:   NotifyConfig{Workers: 1},
	}
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_DRIVER")
}
