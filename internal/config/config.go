// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package config loads Olistlens configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
//
// The warehouse project and dataset identifiers are required; the process
// refuses to start without them rather than failing at the first query.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Cache     CacheConfig     `koanf:"cache"`
	Query     QueryConfig     `koanf:"query"`
	Views     ViewsConfig     `koanf:"views"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WarehouseConfig identifies the analytical store and how to reach it.
//
// ProjectID and DatasetID qualify every table reference as
// "<project>"."<dataset>"."<table>". Locally the warehouse file at Path is
// attached to DuckDB under the project identifier as its catalog name.
type WarehouseConfig struct {
	ProjectID    string        `koanf:"project_identifier"`
	DatasetID    string        `koanf:"dataset_identifier"`
	Path         string        `koanf:"path"`
	ReadOnly     bool          `koanf:"read_only"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = use NumCPU
	QueryTimeout time.Duration `koanf:"query_timeout"`
	Retry        RetryConfig   `koanf:"retry"`
	Breaker      BreakerConfig `koanf:"breaker"`
}

// RetryConfig controls retries of connectivity failures. Query errors are
// never retried. MaxAttempts of 1 disables retrying.
type RetryConfig struct {
	MaxAttempts  int           `koanf:"max_attempts"`
	InitialDelay time.Duration `koanf:"initial_delay"`
	MaxDelay     time.Duration `koanf:"max_delay"`
	Multiplier   float64       `koanf:"multiplier"`
}

// BreakerConfig controls the warehouse circuit breaker.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"` // consecutive connectivity failures
	Timeout          time.Duration `koanf:"timeout"`           // open -> half-open
	MaxRequests      uint32        `koanf:"max_requests"`      // allowed in half-open
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	TTLSeconds      int           `koanf:"ttl_seconds"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// TTL returns the configured cache lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// QueryConfig holds query builder limits.
type QueryConfig struct {
	DefaultRowLimit int `koanf:"default_row_limit"`
	MaxRowLimit     int `koanf:"max_row_limit"`
}

// ViewsConfig holds page rendering settings.
type ViewsConfig struct {
	MaxParallelSections int           `koanf:"max_parallel_sections"`
	SectionTimeout      time.Duration `koanf:"section_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds HTTP protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// RefreshPerMinute bounds how often the cache may be cleared through the
	// API. Clearing forces every subsequent page render to hit the warehouse.
	RefreshPerMinute float64 `koanf:"refresh_per_minute"`
	RefreshBurst     int     `koanf:"refresh_burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration using the layered koanf loader.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
