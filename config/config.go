/*
Package config loads application settings and reference data.

PURPOSE:
  Two kinds of configuration live here:
  - AppConfig: process settings (port, database, logging, limits) read from
    the environment, optionally seeded from a .env file
  - Reference data: tax bracket tables and projection scenarios read from
    YAML. A default tax table set is embedded in the binary.

ENVIRONMENT:
  PORT                 HTTP port                          (8080)
  DATABASE_PATH        SQLite file for reference data     (dividends.db)
  LOG_LEVEL            debug, info, warn, error           (info)
  ALLOWED_ORIGINS      comma-separated CORS origins       (*)
  RATE_LIMIT_RPS       sustained requests per second      (10)
  RATE_LIMIT_BURST     burst size                         (30)
  CACHE_TTL            projection cache lifetime          (10m)
  TAX_TABLES_PATH      YAML file replacing the embedded tax tables
  SHUTDOWN_TIMEOUT     graceful shutdown deadline         (30s)

SEE ALSO:
  - taxtables.go: Tax table YAML
  - scenario.go: Projection scenario YAML
  - cmd/server/main.go: Flags layered over AppConfig
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds process settings.
type AppConfig struct {
	Port         string
	DatabasePath string
	LogLevel     string

	AllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
	CacheTTL       time.Duration

	TaxTablesPath   string
	ShutdownTimeout time.Duration
}

// Load reads settings from the environment. The given .env files (default
// ".env") are loaded first when present; variables already set in the
// environment win over file values.
func Load(envFiles ...string) (*AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var errs []error
	cfg := &AppConfig{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "dividends.db"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 10, &errs),
		RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 30, &errs),
		CacheTTL:        getEnvAsDuration("CACHE_TTL", 10*time.Minute, &errs),
		TaxTablesPath:   getEnv("TAX_TABLES_PATH", ""),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second, &errs),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int, errs *[]error) int {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid integer value for %s (%q)", key, s))
		return fallback
	}
	return v
}

func getEnvAsFloat(key string, fallback float64, errs *[]error) float64 {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid number for %s (%q)", key, s))
		return fallback
	}
	return v
}

func getEnvAsDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid duration for %s (%q)", key, s))
		return fallback
	}
	return v
}

// getEnvAsList splits a comma-separated variable.
func getEnvAsList(key string, fallback []string) []string {
	s := getEnv(key, "")
	if s == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
