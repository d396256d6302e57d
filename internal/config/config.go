package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup from the environment.
type Config struct {
	HTTPPort    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	// SecretKey signs password reset tokens.
	SecretKey     string
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	ResetTokenTTL time.Duration

	ResultsPerPage int
	AuditLogFile   string
}

func Load() Config {
	_ = godotenv.Load()
	return Config{
		HTTPPort:       get("HTTP_PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		SecretKey:      get("SECRET_KEY", "you-will-never-guess"),
		SessionTTL:     duration("SESSION_TTL", 24*time.Hour),
		RememberTTL:    duration("REMEMBER_TTL", 30*24*time.Hour),
		ResetTokenTTL:  duration("RESET_TOKEN_TTL", 10*time.Minute),
		ResultsPerPage: integer("RESULTS_PER_PAGE", 10),
		AuditLogFile:   get("AUDIT_LOG_FILE", "logs/commit.log"),
	}
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func integer(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
