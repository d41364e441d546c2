// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"net/http"

	"github.com/tomtom215/olistlens/internal/middleware"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// recentRequestCount is the number of requests listed by EndpointStats.
const recentRequestCount = 20

// QueryStats returns per-view warehouse execution statistics. With
// ?view=<id> it returns that view's recent executions instead.
func (h *Handler) QueryStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := RecentParams{View: r.URL.Query().Get("view")}
	if !validateRequest(rw, &params) {
		return
	}

	history := h.warehouse.History()
	if params.View == "" {
		stats := history.Stats()
		if stats == nil {
			stats = []warehouse.ViewStats{}
		}
		rw.Success(stats)
		return
	}

	view := query.ViewID(params.View)
	if _, ok := query.LookupView(view); !ok {
		writeDomainError(rw, r, &query.InvalidRequestError{View: view, Field: "view", Reason: "unknown view"})
		return
	}
	rw.Success(history.Recent(view))
}

// EndpointStats returns API latency statistics from the performance monitor.
func (h *Handler) EndpointStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.perfMon == nil {
		rw.Success(map[string]interface{}{
			"endpoints": []middleware.EndpointStats{},
			"recent":    []middleware.RequestMetrics{},
		})
		return
	}
	rw.Success(map[string]interface{}{
		"endpoints": h.perfMon.GetStats(),
		"recent":    h.perfMon.GetRecentMetrics(recentRequestCount),
	})
}
