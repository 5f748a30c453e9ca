package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("TLS_CERT_FILE", "")
	t.Setenv("TLS_KEY_FILE", "")

	cfg := LoadConfig()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "file", cfg.StorageBackend)
	assert.Equal(t, 64*1024, cfg.MaxMessageBytes)
	assert.False(t, cfg.TLSEnabled())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "6000")
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("TOKEN_EXPIRY", "90m")
	t.Setenv("TLS_CERT_FILE", "server.crt")
	t.Setenv("TLS_KEY_FILE", "server.key")

	cfg := LoadConfig()

	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "badger", cfg.StorageBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 90*time.Minute, cfg.TokenExpiry)
	assert.True(t, cfg.TLSEnabled())
}

func TestLoadConfigBadNumberFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "lots")

	cfg := LoadConfig()

	assert.Equal(t, 10, cfg.BcryptCost)
}
