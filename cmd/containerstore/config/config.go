package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SkopeoPath string
	LogLevel   string
	RunRoot    string
}

// Load loads configuration from environment variables.
// Automatically loads .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SkopeoPath: getEnv("CONTAINERSTORE_SKOPEO", "skopeo"),
		LogLevel:   getEnv("CONTAINERSTORE_LOG_LEVEL", "info"),
		RunRoot:    getEnv("CONTAINERSTORE_RUN_ROOT", ""),
	}
}

// Level maps the configured log level to a slog level, defaulting to
// info for unknown values.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
