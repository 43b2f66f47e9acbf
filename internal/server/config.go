package server

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the sync endpoint configuration, sourced from environment
// variables with an optional .env file.
type Config struct {
	Port        string
	DatabaseDSN string

	// APIKey is the value expected in the x-api-key header. Empty disables
	// the check, matching clients configured without a key.
	APIKey string
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", ""),
		APIKey:      getEnv("API_KEY", ""),
	}

	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
