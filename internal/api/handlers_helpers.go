// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/olistlens/internal/middleware"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/validation"
)

// validateRequest validates a params struct. On failure the 400 has
// already been written and it returns false.
func validateRequest(rw *ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		rw.ValidationError(verr.ToAPIError())
		return false
	}
	return true
}

// parseLimit reads the limit parameter. Absent means zero, which selects
// the view default.
func parseLimit(rw *ResponseWriter, r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed, "limit must be an integer",
			map[string]interface{}{"field": "limit", "value": raw})
		return 0, false
	}
	return n, true
}

// parseFilters converts validated filter parameters.
func parseFilters(raw []string) ([]query.Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	filters := make([]query.Filter, 0, len(raw))
	for _, s := range raw {
		f, err := query.ParseFilter(s)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// setCacheStatus marks the response for the performance monitor and for
// clients inspecting cache behavior.
func setCacheStatus(w http.ResponseWriter, cached bool) {
	if cached {
		w.Header().Set(middleware.CacheStatusHeader, "HIT")
	} else {
		w.Header().Set(middleware.CacheStatusHeader, "MISS")
	}
}
