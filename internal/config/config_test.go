package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./static/uploads", cfg.UploadDir)
	assert.Equal(t, 20*time.Second, cfg.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("SESSION_SECRET", "super-secret")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("SESSION_TTL_HOURS", "2")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/blog", cfg.DatabaseURL)
	assert.Equal(t, "super-secret", cfg.SessionSecret)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "soon")

	cfg := Load()
	assert.Equal(t, 20*time.Second, cfg.CacheTTL)
}
