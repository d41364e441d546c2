// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/olistlens/internal/api"
	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/middleware"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/supervisor"
	"github.com/tomtom215/olistlens/internal/supervisor/services"
	"github.com/tomtom215/olistlens/internal/views"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Olistlens stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("project", cfg.Warehouse.ProjectID).
		Str("dataset", cfg.Warehouse.DatasetID).
		Str("warehouse_path", cfg.Warehouse.Path).
		Int("cache_ttl_seconds", cfg.Cache.TTLSeconds).
		Msg("Starting Olistlens")

	// Open attaches and pings, so a missing or unreadable warehouse stops
	// startup. Outages after that surface as per-section connectivity errors.
	wh, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		return fmt.Errorf("open warehouse: %w", err)
	}
	defer func() {
		if err := wh.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing warehouse")
		}
	}()

	builder, err := query.NewBuilder(query.BuilderConfig{
		ProjectID:       cfg.Warehouse.ProjectID,
		DatasetID:       cfg.Warehouse.DatasetID,
		DefaultRowLimit: cfg.Query.DefaultRowLimit,
		MaxRowLimit:     cfg.Query.MaxRowLimit,
	})
	if err != nil {
		return fmt.Errorf("create query builder: %w", err)
	}

	resultCache := cache.New(cfg.Cache.TTL())

	controller, err := views.NewController(builder, wh, resultCache, cfg.Views)
	if err != nil {
		return fmt.Errorf("create view controller: %w", err)
	}

	perfMon := middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold)

	handler, err := api.NewHandler(api.HandlerDeps{
		Views:     controller,
		Warehouse: wh,
		Cache:     resultCache,
		Builder:   builder,
		PerfMon:   perfMon,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security), perfMon)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddMaintenanceService(services.NewCacheJanitorService(resultCache, cfg.Cache.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	return nil
}
