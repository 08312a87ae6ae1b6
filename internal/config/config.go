// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup. Loaded once in main
// and passed read-only to the components that need it.
type Config struct {
	Port               string
	DatabaseURL        string
	ChannelSecret      string
	ChannelAccessToken string
	LineAPIBase        string
	PromptPayID        string
	ArtifactDir        string
	ArtifactBaseURL    string
	Env                string
	LogLevel           string
	CleanupInterval    time.Duration
	CleanupMaxAge      time.Duration
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	// .env is a convenience for local development; its absence is fine.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "4001"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		ChannelSecret:      getEnv("CHANNEL_SECRET", ""),
		ChannelAccessToken: getEnv("CHANNEL_ACCESS_TOKEN", ""),
		LineAPIBase:        getEnv("LINE_API_BASE", "https://api.line.me"),
		PromptPayID:        getEnv("PROMPTPAY_ID", "0909944974"),
		ArtifactDir:        getEnv("ARTIFACT_DIR", "./data/qrcodes"),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
	cfg.ArtifactBaseURL = getEnv("ARTIFACT_BASE_URL", fmt.Sprintf("http://localhost:%s/artifacts", cfg.Port))

	var err error
	if cfg.CleanupInterval, err = getDuration("CLEANUP_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CleanupMaxAge, err = getDuration("CLEANUP_MAX_AGE", 7*24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ChannelSecret == "" {
		return nil, fmt.Errorf("CHANNEL_SECRET is required")
	}
	if cfg.ChannelAccessToken == "" {
		return nil, fmt.Errorf("CHANNEL_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

// Production reports whether the service runs in the production environment.
// It controls log format and how much error detail handlers echo to callers.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
