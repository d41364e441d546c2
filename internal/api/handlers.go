// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/middleware"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/views"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// Renderer renders dashboard pages and views. *views.Controller satisfies it.
type Renderer interface {
	Page(ctx context.Context, id views.PageID, req views.PageRequest) (*views.Page, error)
	View(ctx context.Context, req query.Request) (*views.Section, error)
	Refresh(view query.ViewID) (int, error)
	RefreshAll() int
}

// Warehouse is the part of the warehouse client the handlers need.
// *warehouse.Client satisfies it.
type Warehouse interface {
	Ping(ctx context.Context) error
	Stats() warehouse.Stats
	History() *warehouse.History
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness, readiness and health
//   - handlers_pages.go: page and view rendering, catalog listings
//   - handlers_cache.go: cache statistics and refresh
//   - handlers_stats.go: query and endpoint performance
type Handler struct {
	views     Renderer
	warehouse Warehouse
	cache     *cache.Cache
	builder   *query.Builder
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// HandlerDeps groups the handler dependencies. PerfMon and Version are
// optional.
type HandlerDeps struct {
	Views     Renderer
	Warehouse Warehouse
	Cache     *cache.Cache
	Builder   *query.Builder
	PerfMon   *middleware.PerformanceMonitor
	Version   string
}

// NewHandler creates the API handler.
func NewHandler(deps HandlerDeps) (*Handler, error) {
	if deps.Views == nil || deps.Warehouse == nil || deps.Cache == nil || deps.Builder == nil {
		return nil, errors.New("api handler requires views, warehouse, cache and builder")
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		views:     deps.Views,
		warehouse: deps.Warehouse,
		cache:     deps.Cache,
		builder:   deps.Builder,
		perfMon:   deps.PerfMon,
		version:   version,
		startTime: time.Now(),
	}, nil
}
