// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package warehousetest provides an in-memory DuckDB warehouse with the
// catalog tables created, for tests of packages that query the warehouse.
package warehousetest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// Identifiers of the test warehouse.
const (
	ProjectID = "proj"
	DatasetID = "ds"
)

// Config returns a warehouse configuration for an in-memory catalog with
// retries and the circuit breaker disabled.
func Config() config.WarehouseConfig {
	return config.WarehouseConfig{
		ProjectID:    ProjectID,
		DatasetID:    DatasetID,
		Path:         warehouse.InMemoryPath,
		Threads:      1,
		QueryTimeout: 10 * time.Second,
		Retry:        config.RetryConfig{MaxAttempts: 1},
	}
}

// Open returns a client whose catalog holds every warehouse table, empty.
// The client is closed when the test ends.
func Open(t testing.TB) *warehouse.Client {
	t.Helper()

	c, err := warehouse.Open(Config())
	if err != nil {
		t.Fatalf("open warehouse: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	Exec(t, c, fmt.Sprintf(`CREATE SCHEMA %s.%s`, quote(ProjectID), quote(DatasetID)))
	for _, table := range query.Tables() {
		Exec(t, c, createTableSQL(table))
	}
	return c
}

// Builder returns a query builder for the test warehouse.
func Builder(t testing.TB) *query.Builder {
	t.Helper()
	b, err := query.NewBuilder(query.BuilderConfig{
		ProjectID:       ProjectID,
		DatasetID:       DatasetID,
		DefaultRowLimit: 1000,
		MaxRowLimit:     10000,
	})
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return b
}

// Exec runs a statement against the test warehouse.
func Exec(t testing.TB, c *warehouse.Client, stmt string, args ...any) {
	t.Helper()
	if _, err := c.Conn().ExecContext(context.Background(), stmt, args...); err != nil {
		t.Fatalf("exec %q: %v", stmt, err)
	}
}

// Insert inserts one row given as column -> value into a catalog table.
func Insert(t testing.TB, c *warehouse.Client, table string, row map[string]any) {
	t.Helper()

	cols := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	marks := make([]string, 0, len(row))
	for col, v := range row {
		cols = append(cols, quote(col))
		args = append(args, v)
		marks = append(marks, "?")
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		TableRef(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	Exec(t, c, stmt, args...)
}

// TableRef returns the qualified name of a catalog table.
func TableRef(table string) string {
	return quote(ProjectID) + "." + quote(DatasetID) + "." + quote(table)
}

// States are the 27 Brazilian federative units with their regions.
var States = []struct{ Code, Region string }{
	{"AC", "North"}, {"AL", "Northeast"}, {"AM", "North"}, {"AP", "North"},
	{"BA", "Northeast"}, {"CE", "Northeast"}, {"DF", "Center-West"}, {"ES", "Southeast"},
	{"GO", "Center-West"}, {"MA", "Northeast"}, {"MG", "Southeast"}, {"MS", "Center-West"},
	{"MT", "Center-West"}, {"PA", "North"}, {"PB", "Northeast"}, {"PE", "Northeast"},
	{"PI", "Northeast"}, {"PR", "South"}, {"RJ", "Southeast"}, {"RN", "Northeast"},
	{"RO", "North"}, {"RR", "North"}, {"RS", "South"}, {"SC", "South"},
	{"SE", "Northeast"}, {"SP", "Southeast"}, {"TO", "North"},
}

// SeedStates fills geographic_analytics_obt with one row per state.
// Revenue grows with the state's position so ordering is deterministic.
func SeedStates(t testing.TB, c *warehouse.Client) {
	t.Helper()
	for i, s := range States {
		customers := int64(100 * (i + 1))
		revenue := 15000.25 * float64(i+1)
		tier := "Emerging"
		if i >= 18 {
			tier = "Tier 1"
		} else if i >= 9 {
			tier = "Tier 2"
		}
		Insert(t, c, query.TableGeographicAnalytics, map[string]any{
			"state_code":               s.Code,
			"geographic_region":        s.Region,
			"total_customers":          customers,
			"total_orders":             customers + int64(i),
			"total_revenue":            revenue,
			"average_order_value":      revenue / float64(customers+int64(i)),
			"avg_review_score":         3.5 + float64(i%10)/10,
			"market_tier":              tier,
			"customers_per_city":       float64(customers) / 3,
			"revenue_per_customer":     revenue / float64(customers),
			"market_opportunity_index": float64(i) * 1.5,
		})
	}
}

func createTableSQL(t *query.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = quote(c.Name) + " " + sqlType(c.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", TableRef(t.Name), strings.Join(defs, ", "))
}

func sqlType(kind models.ColumnKind) string {
	switch kind {
	case models.KindInteger:
		return "BIGINT"
	case models.KindFloat:
		return "DOUBLE"
	case models.KindDate:
		return "DATE"
	case models.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
