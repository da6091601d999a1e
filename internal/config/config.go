package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Addr          string
	DatabaseURL   string
	SessionSecret string
	SessionTTL    time.Duration
	UploadDir     string
	CacheTTL      time.Duration
}

const (
	defaultPort       = "8080"
	defaultUploadDir  = "./static/uploads"
	defaultSessionTTL = 24 * time.Hour
	defaultCacheTTL   = 20 * time.Second
)

// Load reads configuration from the environment, falling back to a .env
// file when present.
func Load() *Config {
	// Best effort; env vars win over the file either way.
	_ = godotenv.Load()

	port := getEnv("PORT", defaultPort)

	return &Config{
		Addr:          ":" + port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: getEnv("SESSION_SECRET", "dev-secret"),
		SessionTTL:    getDuration("SESSION_TTL_HOURS", defaultSessionTTL, time.Hour),
		UploadDir:     getEnv("UPLOAD_DIR", defaultUploadDir),
		CacheTTL:      getDuration("CACHE_TTL_SECONDS", defaultCacheTTL, time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, unit time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
