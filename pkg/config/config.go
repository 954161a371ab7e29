// Copyright 2025 Prism Protocol
//
// Package config loads runtime configuration for the prismctl driver and
// the read-only catalog API from environment variables. Compiler inputs
// (fixture size, budget, mint decimals) are CLI flags, not environment
// configuration, and are parsed by cmd/prismctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds service-level configuration, as distinct from a single
// compiler invocation's parameters.
type Config struct {
	// CatalogDSN is the modernc.org/sqlite data source for the compiled
	// catalog database.
	CatalogDSN string

	// ListenAddr is the address the read-only HTTP catalog API binds to.
	ListenAddr string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is "json" or "text".
	LogFormat string

	// WorkerConcurrency bounds how many cohorts the compiler processes
	// concurrently.
	WorkerConcurrency int
}

// Load reads configuration from environment variables, applying safe
// defaults for anything not required for local development.
func Load() (*Config, error) {
	cfg := &Config{
		CatalogDSN:        getEnv("PRISM_CATALOG_DSN", "file:prism_catalog.db?cache=shared"),
		ListenAddr:        getEnv("PRISM_LISTEN_ADDR", "127.0.0.1:8085"),
		LogLevel:          getEnv("PRISM_LOG_LEVEL", "info"),
		LogFormat:         getEnv("PRISM_LOG_FORMAT", "text"),
		WorkerConcurrency: getEnvInt("PRISM_WORKER_CONCURRENCY", 4),
	}
	return cfg, nil
}

// Validate checks that the configuration is usable for serving the
// catalog API.
func (c *Config) Validate() error {
	var problems []string

	if c.CatalogDSN == "" {
		problems = append(problems, "PRISM_CATALOG_DSN must not be empty")
	}
	if c.ListenAddr == "" {
		problems = append(problems, "PRISM_LISTEN_ADDR must not be empty")
	}
	if c.WorkerConcurrency <= 0 {
		problems = append(problems, "PRISM_WORKER_CONCURRENCY must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("PRISM_LOG_LEVEL %q is not one of debug,info,warn,error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
