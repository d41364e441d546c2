// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/views"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// retryAfterSeconds is advertised on 503 responses while the warehouse is
// unreachable.
const retryAfterSeconds = "5"

// writeDomainError maps pipeline errors onto HTTP statuses:
//
//	invalid request     -> 400 INVALID_REQUEST
//	unknown page        -> 404 NOT_FOUND
//	warehouse down      -> 503 WAREHOUSE_UNAVAILABLE (retryable)
//	query failed        -> 502 QUERY_FAILED
//	anything else       -> 500 INTERNAL_ERROR
//
// Query and internal failures are logged here; their details never reach
// the client.
func writeDomainError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, query.ErrInvalidRequest):
		rw.InvalidRequest(err.Error())

	case errors.Is(err, views.ErrPageNotFound):
		rw.NotFound(err.Error())

	case errors.Is(err, warehouse.ErrConnectivity):
		logging.Ctx(r.Context()).Warn().Err(err).Str("path", sanitizeLogValue(r.URL.Path)).Msg("Warehouse unavailable")
		rw.w.Header().Set("Retry-After", retryAfterSeconds)
		rw.ServiceUnavailable(ErrCodeWarehouseUnavailable, "The data warehouse could not be reached. Try again shortly.")

	case errors.Is(err, warehouse.ErrQuery):
		logging.Ctx(r.Context()).Error().Err(err).Str("path", sanitizeLogValue(r.URL.Path)).Msg("Warehouse query failed")
		rw.QueryFailed("The query could not be completed. The failure has been logged.")

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", sanitizeLogValue(r.URL.Path)).Msg("Request failed")
		rw.InternalError("An unexpected error occurred")
	}
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
