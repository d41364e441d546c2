// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/query"
)

// RefreshResult is the payload of the refresh endpoints.
type RefreshResult struct {
	View    query.ViewID `json:"view,omitempty"`
	Removed int          `json:"removed"`
}

// CacheStats reports the result cache state.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.cacheStatus())
}

// RefreshAll empties the result cache so every section reads the
// warehouse again.
func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	removed := h.views.RefreshAll()
	logging.Ctx(r.Context()).Info().Int("removed", removed).Msg("Result cache cleared")
	NewResponseWriter(w, r).Success(RefreshResult{Removed: removed})
}

// RefreshView drops the cached results of one view.
func (h *Handler) RefreshView(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := RefreshParams{View: chi.URLParam(r, "view")}
	if !validateRequest(rw, &params) {
		return
	}

	view := query.ViewID(params.View)
	removed, err := h.views.Refresh(view)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("view", params.View).Int("removed", removed).Msg("View cache refreshed")
	rw.Success(RefreshResult{View: view, Removed: removed})
}
