// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package config

import (
	"fmt"
	"regexp"
	"time"
)

// identifierPattern restricts project and dataset identifiers to characters
// that are safe inside a quoted SQL identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,127}$`)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateWarehouse(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateQuery(); err != nil {
		return err
	}
	if err := c.validateViews(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateWarehouse enforces the required identifiers.
func (c *Config) validateWarehouse() error {
	if c.Warehouse.ProjectID == "" {
		return fmt.Errorf("PROJECT_ID is required")
	}
	if !identifierPattern.MatchString(c.Warehouse.ProjectID) {
		return fmt.Errorf("PROJECT_ID %q must start with a letter and contain only letters, digits, '_' or '-'", c.Warehouse.ProjectID)
	}
	if c.Warehouse.DatasetID == "" {
		return fmt.Errorf("DATASET_ID is required")
	}
	if !identifierPattern.MatchString(c.Warehouse.DatasetID) {
		return fmt.Errorf("DATASET_ID %q must start with a letter and contain only letters, digits, '_' or '-'", c.Warehouse.DatasetID)
	}
	if c.Warehouse.Path == "" {
		return fmt.Errorf("WAREHOUSE_PATH is required")
	}
	if c.Warehouse.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	if c.Warehouse.QueryTimeout < 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be >= 0")
	}
	return c.validateRetry()
}

func (c *Config) validateRetry() error {
	r := c.Warehouse.Retry
	if r.MaxAttempts < 1 || r.MaxAttempts > 10 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be between 1 and 10")
	}
	if r.MaxAttempts == 1 {
		return nil
	}
	if r.InitialDelay <= 0 {
		return fmt.Errorf("RETRY_INITIAL_DELAY must be positive")
	}
	if r.MaxDelay < r.InitialDelay {
		return fmt.Errorf("RETRY_MAX_DELAY must be >= RETRY_INITIAL_DELAY")
	}
	if r.Multiplier < 1 {
		return fmt.Errorf("RETRY_MULTIPLIER must be >= 1")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive")
	}
	return nil
}

func (c *Config) validateQuery() error {
	if c.Query.DefaultRowLimit <= 0 {
		return fmt.Errorf("DEFAULT_ROW_LIMIT must be positive")
	}
	if c.Query.MaxRowLimit < c.Query.DefaultRowLimit {
		return fmt.Errorf("MAX_ROW_LIMIT (%d) must be >= DEFAULT_ROW_LIMIT (%d)", c.Query.MaxRowLimit, c.Query.DefaultRowLimit)
	}
	return nil
}

func (c *Config) validateViews() error {
	if c.Views.MaxParallelSections < 1 {
		return fmt.Errorf("MAX_PARALLEL_SECTIONS must be >= 1")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// validateSecurity validates rate limit bounds.
func (c *Config) validateSecurity() error {
	if c.Security.RefreshPerMinute <= 0 || c.Security.RefreshBurst < 1 {
		return fmt.Errorf("CACHE_REFRESH_PER_MINUTE and CACHE_REFRESH_BURST must be positive")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
