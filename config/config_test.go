package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
api_url: http://catalog:3333
timeout: 2s
storage: redis
redis_addr: cache:6379
redis_db: 2
storage_key: "@Test:cart"
log:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://catalog:3333", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, StorageRedis, cfg.Storage)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "@Test:cart", cfg.StorageKey)
	assert.Equal(t, Log{Level: "debug", Format: "text"}, cfg.Log)
	// untouched keys keep their defaults
	assert.Equal(t, "3333", cfg.HTTPPort)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeFile(t, "storag: sqlite\n"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CART_API_URL", "http://env:1")
	t.Setenv("CART_STORAGE", "memory")
	t.Setenv("CART_TIMEOUT", "750ms")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("DATABASE_URL", "postgres://x")

	cfg, err := Load(writeFile(t, "api_url: http://file:1\nstorage: sqlite\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://env:1", cfg.APIURL)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)
}

func TestEnvOverrideBadNumber(t *testing.T) {
	t.Setenv("CART_REDIS_DB", "two")
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage = "etcd"
	assert.ErrorContains(t, cfg.Validate(), "unknown storage backend")

	cfg = Default()
	cfg.SQLitePath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}
