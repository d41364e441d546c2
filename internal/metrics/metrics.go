// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Warehouse query performance (DuckDB)
// - Result cache efficiency
// - API endpoint latency and throughput
// - Page section outcomes
// - Circuit breaker state

var (
	// Warehouse Metrics
	WarehouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_query_duration_seconds",
			Help:    "Duration of warehouse queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"view", "status"},
	)

	WarehouseQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_errors_total",
			Help: "Total number of warehouse query errors",
		},
		[]string{"view", "error_type"}, // connectivity, query
	)

	WarehouseQueryRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_query_rows",
			Help:    "Number of rows returned per warehouse query",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 10000, 100000},
		},
		[]string{"view"},
	)

	WarehouseQueryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_retries_total",
			Help: "Total number of warehouse query retries after connectivity failures",
		},
		[]string{"view"},
	)

	WarehouseOpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_open_connections",
			Help: "Current number of open warehouse connections",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"view"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"view"},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of cache entries removed by refresh or TTL sweep",
		},
		[]string{"reason"}, // refresh, refresh_all, expired
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Page Metrics
	SectionRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_section_renders_total",
			Help: "Total number of rendered page sections by outcome",
		},
		[]string{"page", "status"}, // ready, empty, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordWarehouseQuery records one warehouse execution. errorType is empty on
// success.
func RecordWarehouseQuery(view string, duration time.Duration, rows int, errorType string) {
	status := "success"
	if errorType != "" {
		status = "error"
		WarehouseQueryErrors.WithLabelValues(view, errorType).Inc()
	} else {
		WarehouseQueryRows.WithLabelValues(view).Observe(float64(rows))
	}
	WarehouseQueryDuration.WithLabelValues(view, status).Observe(duration.Seconds())
}

// RecordWarehouseRetry counts a retried warehouse query.
func RecordWarehouseRetry(view string) {
	WarehouseQueryRetries.WithLabelValues(view).Inc()
}

// RecordCacheLookup records a cache hit or miss for a view.
func RecordCacheLookup(view string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(view).Inc()
	} else {
		CacheMisses.WithLabelValues(view).Inc()
	}
}

// RecordCacheInvalidation records removed cache entries.
func RecordCacheInvalidation(reason string, removed int) {
	if removed > 0 {
		CacheInvalidations.WithLabelValues(reason).Add(float64(removed))
	}
}

// RecordSection records the outcome of one rendered page section.
func RecordSection(page, status string) {
	SectionRenders.WithLabelValues(page, status).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
