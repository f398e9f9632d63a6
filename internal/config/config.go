package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup. DatabaseURL is
// optional; without it quizzes are served from memory and results are not
// persisted.
type Config struct {
	Port          string
	DatabaseURL   string
	SweepInterval time.Duration
	InactiveAfter time.Duration
}

// Load reads .env when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Load] no .env file, using environment: %v", err)
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL_SECONDS", 60),
		InactiveAfter: getEnvDuration("INACTIVE_AFTER_SECONDS", 900),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallbackSeconds int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallbackSeconds) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[getEnvDuration] invalid %s=%q, using %ds", key, v, fallbackSeconds)
		return time.Duration(fallbackSeconds) * time.Second
	}
	return time.Duration(n) * time.Second
}
