// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/olistlens/config.yaml",
	"/etc/olistlens/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values. The
// warehouse identifiers are intentionally empty: they must be supplied.
func defaultConfig() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			ProjectID:    "",
			DatasetID:    "",
			Path:         "/data/olist.duckdb",
			ReadOnly:     true,
			MaxMemory:    "2GB",
			Threads:      0,
			QueryTimeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:  3,
				InitialDelay: 200 * time.Millisecond,
				MaxDelay:     2 * time.Second,
				Multiplier:   2.0,
			},
			Breaker: BreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				Timeout:          30 * time.Second,
				MaxRequests:      1,
			},
		},
		Cache: CacheConfig{
			TTLSeconds:      1800,
			CleanupInterval: 5 * time.Minute,
		},
		Query: QueryConfig{
			DefaultRowLimit: 1000,
			MaxRowLimit:     10000,
		},
		Views: ViewsConfig{
			MaxParallelSections: 4,
			SectionTimeout:      45 * time.Second,
		},
		Server: ServerConfig{
			Port:        8501,
			Host:        "0.0.0.0",
			Timeout:     60 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			RefreshPerMinute:  6,
			RefreshBurst:      2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any mapped setting
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// PROJECT_ID -> warehouse.project_identifier, CACHE_TTL_SECONDS -> cache.ttl_seconds
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Warehouse
	"project_id":                 "warehouse.project_identifier",
	"dataset_id":                 "warehouse.dataset_identifier",
	"warehouse_path":             "warehouse.path",
	"warehouse_read_only":        "warehouse.read_only",
	"duckdb_max_memory":          "warehouse.max_memory",
	"duckdb_threads":             "warehouse.threads",
	"query_timeout":              "warehouse.query_timeout",
	"retry_max_attempts":         "warehouse.retry.max_attempts",
	"retry_initial_delay":        "warehouse.retry.initial_delay",
	"retry_max_delay":            "warehouse.retry.max_delay",
	"retry_multiplier":           "warehouse.retry.multiplier",
	"breaker_enabled":            "warehouse.breaker.enabled",
	"breaker_failure_threshold":  "warehouse.breaker.failure_threshold",
	"breaker_timeout":            "warehouse.breaker.timeout",
	"breaker_half_open_requests": "warehouse.breaker.max_requests",

	// Cache
	"cache_ttl_seconds":      "cache.ttl_seconds",
	"cache_cleanup_interval": "cache.cleanup_interval",

	// Query builder
	"default_row_limit": "query.default_row_limit",
	"max_row_limit":     "query.max_row_limit",

	// Page rendering
	"max_parallel_sections": "views.max_parallel_sections",
	"section_timeout":       "views.section_timeout",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"rate_limit_requests":      "security.rate_limit_reqs",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"cors_origins":             "security.cors_origins",
	"cache_refresh_per_minute": "security.refresh_per_minute",
	"cache_refresh_burst":      "security.refresh_burst",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so that unrelated environment does not leak
// into the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
