// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package api provides the HTTP layer of the dashboard.

Routes:

	GET    /api/v1/health               warehouse, breaker and cache status
	GET    /api/v1/health/live          liveness probe
	GET    /api/v1/health/ready         readiness probe (warehouse ping)
	GET    /api/v1/pages                page catalog
	GET    /api/v1/pages/{page}         rendered page, every section
	GET    /api/v1/views                view catalog with filter allow-lists
	GET    /api/v1/views/{view}         one view as a formatted table
	GET    /api/v1/cache                result cache statistics
	DELETE /api/v1/cache                clear the result cache
	DELETE /api/v1/cache/views/{view}   clear one view's cached results
	GET    /api/v1/stats/queries        warehouse execution statistics
	GET    /api/v1/stats/endpoints      API latency statistics
	GET    /metrics                     Prometheus exposition

Pages and views accept repeated filter=column:op:v1[,v2] parameters;
views also take sort=column[:asc|desc], limit=n and format=csv, which sends
the formatted table as a CSV download.

Every JSON response uses the APIResponse envelope. A page whose sections
failed is still a 200: each section carries its own status and error. A
single view maps pipeline failures to HTTP statuses, see writeDomainError.

Middleware: request IDs, real IP, panic recovery and CORS are global. Read
endpoints get per-IP rate limiting via go-chi/httprate, security headers,
Prometheus instrumentation and gzip. The refresh endpoints additionally
share one golang.org/x/time/rate token bucket.
*/
package api
