// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package main is the entry point for the Olistlens server.

Olistlens serves the marketing dashboard for the Olist e-commerce warehouse:
six pages of KPIs, tables and chart frames read from the pre-aggregated
customer, order, review and geographic analytics tables.

# Startup

 1. Configuration: koanf v2 with defaults, an optional YAML file and the
    environment (PROJECT_ID and DATASET_ID are required)
 2. Logging: zerolog, json or console
 3. Warehouse: DuckDB with the warehouse file attached under the project
    identifier
 4. Query builder, result cache and view controller
 5. HTTP: chi router with request IDs, CORS, rate limiting, Prometheus
    metrics and gzip on page and view routes
 6. Supervisor tree: the cache janitor and the HTTP server under suture v4

# Signals

SIGINT and SIGTERM cancel the supervisor context. The HTTP server drains
in-flight requests for up to 10 seconds, then the warehouse is closed.

# Example

	export PROJECT_ID=olist-analytics
	export DATASET_ID=marts
	export WAREHOUSE_PATH=/data/olist.duckdb
	export CACHE_TTL_SECONDS=600
	./olistlens
*/
package main
