// internal/config/config.go

// Package config holds the environment-driven runtime configuration.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything cmd/shelfsd needs to wire the process.
type Config struct {
	Addr    string // HTTP listen address
	DataDir string // snapshot directory

	LoanPeriod     time.Duration // how long a copy may be kept out
	MaxActiveLoans int           // simultaneous active loans per user

	// Default administrator seeded on first start, before any snapshot exists.
	SeedAdminUsername string
	SeedAdminEmail    string
	SeedAdminPassword string

	OTLPEndpoint string // empty disables trace export
}

// Load reads configuration from the environment, falling back to defaults
// that match the original deployment.
func Load() *Config {
	return &Config{
		Addr:              getEnv("SHELFS_ADDR", ":8080"),
		DataDir:           getEnv("SHELFS_DATA_DIR", "data"),
		LoanPeriod:        time.Duration(getEnvInt("SHELFS_LOAN_PERIOD_DAYS", 14)) * 24 * time.Hour,
		MaxActiveLoans:    getEnvInt("SHELFS_MAX_ACTIVE_LOANS", 2),
		SeedAdminUsername: getEnv("SHELFS_SEED_ADMIN_USERNAME", "admin"),
		SeedAdminEmail:    getEnv("SHELFS_SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword: getEnv("SHELFS_SEED_ADMIN_PASSWORD", "passwordsafe"),
		OTLPEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
