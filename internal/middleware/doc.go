// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package middleware provides HTTP middleware shared by the API router.

Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - PerformanceMonitor: sliding window of recent requests with percentile
    statistics, served at /api/v1/stats/endpoints
  - Compression: gzip for clients that accept it

RequestID, PrometheusMetrics and Compression use the http.HandlerFunc
signature; the api package adapts them for chi's r.Use.
*/
package middleware
