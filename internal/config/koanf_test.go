// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Warehouse.ProjectID != "" || cfg.Warehouse.DatasetID != "" {
		t.Errorf("warehouse identifiers must have no default, got %q/%q",
			cfg.Warehouse.ProjectID, cfg.Warehouse.DatasetID)
	}
	if cfg.Cache.TTLSeconds != 1800 {
		t.Errorf("Cache.TTLSeconds = %d, want 1800", cfg.Cache.TTLSeconds)
	}
	if cfg.Cache.TTL() != 30*time.Minute {
		t.Errorf("Cache.TTL() = %v, want 30m", cfg.Cache.TTL())
	}
	if cfg.Query.DefaultRowLimit != 1000 {
		t.Errorf("Query.DefaultRowLimit = %d, want 1000", cfg.Query.DefaultRowLimit)
	}
	if cfg.Warehouse.Retry.MaxAttempts != 3 {
		t.Errorf("Warehouse.Retry.MaxAttempts = %d, want 3", cfg.Warehouse.Retry.MaxAttempts)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PROJECT_ID", "warehouse.project_identifier"},
		{"DATASET_ID", "warehouse.dataset_identifier"},
		{"CACHE_TTL_SECONDS", "cache.ttl_seconds"},
		{"DEFAULT_ROW_LIMIT", "query.default_row_limit"},
		{"WAREHOUSE_PATH", "warehouse.path"},
		{"RETRY_MAX_ATTEMPTS", "warehouse.retry.max_attempts"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"HOME", ""},
		{"PATH", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
}

func TestLoadWithKoanf_MissingIdentifiers(t *testing.T) {
	isolateConfig(t)

	t.Setenv("PROJECT_ID", "")
	t.Setenv("DATASET_ID", "olist_analytics")
	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "PROJECT_ID is required") {
		t.Fatalf("expected missing PROJECT_ID error, got %v", err)
	}

	t.Setenv("PROJECT_ID", "olist-warehouse")
	t.Setenv("DATASET_ID", "")
	_, err = LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "DATASET_ID is required") {
		t.Fatalf("expected missing DATASET_ID error, got %v", err)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolateConfig(t)

	t.Setenv("PROJECT_ID", "olist-warehouse")
	t.Setenv("DATASET_ID", "olist_analytics")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("DEFAULT_ROW_LIMIT", "50")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("QUERY_TIMEOUT", "5s")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Warehouse.ProjectID != "olist-warehouse" {
		t.Errorf("ProjectID = %q", cfg.Warehouse.ProjectID)
	}
	if cfg.Warehouse.DatasetID != "olist_analytics" {
		t.Errorf("DatasetID = %q", cfg.Warehouse.DatasetID)
	}
	if cfg.Cache.TTL() != time.Minute {
		t.Errorf("Cache.TTL() = %v, want 1m", cfg.Cache.TTL())
	}
	if cfg.Query.DefaultRowLimit != 50 {
		t.Errorf("DefaultRowLimit = %d, want 50", cfg.Query.DefaultRowLimit)
	}
	if cfg.Warehouse.QueryTimeout != 5*time.Second {
		t.Errorf("QueryTimeout = %v, want 5s", cfg.Warehouse.QueryTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
warehouse:
  project_identifier: file-project
  dataset_identifier: file_dataset
  path: ":memory:"
cache:
  ttl_seconds: 120
query:
  default_row_limit: 25
  max_row_limit: 500
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PROJECT_ID", "env-project")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	// Environment wins over the file.
	if cfg.Warehouse.ProjectID != "env-project" {
		t.Errorf("ProjectID = %q, want env-project", cfg.Warehouse.ProjectID)
	}
	if cfg.Warehouse.DatasetID != "file_dataset" {
		t.Errorf("DatasetID = %q, want file_dataset", cfg.Warehouse.DatasetID)
	}
	if cfg.Warehouse.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", cfg.Warehouse.Path)
	}
	if cfg.Cache.TTLSeconds != 120 {
		t.Errorf("TTLSeconds = %d, want 120", cfg.Cache.TTLSeconds)
	}
	if cfg.Query.MaxRowLimit != 500 {
		t.Errorf("MaxRowLimit = %d, want 500", cfg.Query.MaxRowLimit)
	}
}
