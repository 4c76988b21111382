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
		"DB_DSN", "DB_HOST", envRedisHost, envRedisPort, envRedisUser, envRedisPass,
		envMinioEndpoint, envMinioAccess, envMinioSecret, envOpenAIKey, envOpenAIModel,
		envBackendURL, envNoticeTTL, "CLIENT_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(envConfigName, "does-not-exist")
	t.Setenv(envConfigPath, t.TempDir())

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServiceHost)
	assert.Equal(t, 8000, cfg.ServicePort)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, "procurement-documents", cfg.MinIO.Bucket)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 24*time.Hour, cfg.Redis.ExtractionTTL)
	assert.Equal(t, 10*time.Second, cfg.Redis.DialTimeout)
	assert.Empty(t, cfg.DSN)
}

func TestNewConfigFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
ServiceHost = "127.0.0.1"
ServicePort = 9090

[MinIO]
Bucket = "docs"
UseSSL = true

[Redis]
ExtractionTTL = "1h"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.toml"), []byte(content), 0o600))
	t.Setenv(envConfigName, "test")
	t.Setenv(envConfigPath, dir)
	t.Setenv(envRedisHost, "cache")
	t.Setenv(envRedisPort, "6380")
	t.Setenv(envOpenAIKey, "sk-test")
	t.Setenv("DB_DSN", "host=db")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.ServiceHost)
	assert.Equal(t, 9090, cfg.ServicePort)
	assert.Equal(t, "docs", cfg.MinIO.Bucket)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, time.Hour, cfg.Redis.ExtractionTTL)
	assert.Equal(t, "cache", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "host=db", cfg.DSN)
}

func TestNewConfigBadRedisPort(t *testing.T) {
	clearEnv(t)
	t.Setenv(envConfigName, "does-not-exist")
	t.Setenv(envConfigPath, t.TempDir())
	t.Setenv(envRedisPort, "six")

	_, err := NewConfig()
	assert.ErrorContains(t, err, "redis port must be int value")
}

func TestNewClientConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := NewClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.NoticeTTL)

	t.Setenv(envBackendURL, "http://api.internal:8080")
	t.Setenv(envNoticeTTL, "5s")
	cfg, err = NewClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:8080", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.NoticeTTL)
}
