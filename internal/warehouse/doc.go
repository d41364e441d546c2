// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package warehouse executes built queries against the analytical store.

The store is DuckDB, reached through database/sql with the duckdb-go driver.
Open starts an in-memory DuckDB instance and attaches the warehouse file as
a catalog named after the project identifier, so that every reference of the
form "<project>"."<dataset>"."<table>" resolves without relying on a default
schema. The attach is READ_ONLY unless configured otherwise.

# Error Taxonomy

Every failure of Execute is one of:

  - *ConnectivityError (errors.Is(err, ErrConnectivity)): the warehouse could
    not be reached, the connection broke, the query deadline passed, or the
    circuit breaker is open. These are transient.
  - *QueryError (errors.Is(err, ErrQuery)): the statement failed or the
    returned columns differ from the declared schema. These require a code
    or schema fix.

Zero rows is not an error.

# Retries

Connectivity failures are retried up to warehouse.retry.max_attempts times
with exponential backoff and jitter. Query errors are returned on the first
attempt. A gobreaker circuit breaker opens after
warehouse.breaker.failure_threshold consecutive connectivity failures and
rejects calls until its timeout elapses.

# Observability

Each execution is recorded in Prometheus (duration, rows, errors, retries)
and in a per-view History of the last ten executions served at
/api/v1/stats/queries.
*/
package warehouse
