// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8501/metrics

# Available Metrics

Warehouse Metrics:
  - warehouse_query_duration_seconds: Query execution time (histogram)
    Labels: view, status
  - warehouse_query_errors_total: Failed queries (counter)
    Labels: view, error_type (connectivity, query)
  - warehouse_query_rows: Rows returned per query (histogram)
    Labels: view
  - warehouse_query_retries_total: Retries after connectivity failures (counter)
  - warehouse_open_connections: Open pool connections (gauge)

Cache Metrics:
  - cache_hits_total, cache_misses_total (counter)
    Labels: view
  - cache_entries: Stored entries (gauge)
  - cache_invalidations_total: Entries removed (counter)
    Labels: reason (refresh, refresh_all, expired)

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Page Metrics:
  - page_section_renders_total: Section outcomes (counter)
    Labels: page, status (ready, empty, error)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures (gauge)
  - circuit_breaker_state_transitions_total

# Usage

	start := time.Now()
	rs, err := client.Execute(ctx, q)
	metrics.RecordWarehouseQuery(string(q.View), time.Since(start), rs.Len(), "")
*/
package metrics
