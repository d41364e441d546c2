// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/views"
)

// PageSummary describes a page in GET /api/v1/pages.
type PageSummary struct {
	ID       views.PageID     `json:"id"`
	Title    string           `json:"title"`
	Filters  []string         `json:"filters"`
	Sections []SectionSummary `json:"sections"`
}

// SectionSummary describes one section of a page.
type SectionSummary struct {
	ID    string            `json:"id"`
	Title string            `json:"title"`
	Kind  views.SectionKind `json:"kind"`
	View  query.ViewID      `json:"view"`
}

// ViewSummary describes a view in GET /api/v1/views.
type ViewSummary struct {
	ID           query.ViewID    `json:"id"`
	Title        string          `json:"title"`
	Table        string          `json:"table"`
	Columns      []models.Column `json:"columns"`
	Filterable   []string        `json:"filterable"`
	DefaultLimit int             `json:"default_limit"`
	MaxLimit     int             `json:"max_limit"`
}

// ListPages lists the dashboard pages and their sections.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages := views.Pages()
	out := make([]PageSummary, len(pages))
	for i, p := range pages {
		sections := make([]SectionSummary, len(p.Sections))
		for j, s := range p.Sections {
			sections[j] = SectionSummary{ID: s.ID, Title: s.Title, Kind: s.Kind, View: s.View}
		}
		filters := p.Filters
		if filters == nil {
			filters = []string{}
		}
		out[i] = PageSummary{ID: p.ID, Title: p.Title, Filters: filters, Sections: sections}
	}
	NewResponseWriter(w, r).Success(out)
}

// ListViews lists the view catalog with filterable columns and row limits.
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	all := query.Views()
	out := make([]ViewSummary, len(all))
	for i, v := range all {
		def, maxLimit := h.builder.Limits(v)
		filterable := v.Filterable
		if filterable == nil {
			filterable = []string{}
		}
		out[i] = ViewSummary{
			ID:           v.ID,
			Title:        v.Title,
			Table:        v.Table,
			Columns:      v.Columns(),
			Filterable:   filterable,
			DefaultLimit: def,
			MaxLimit:     maxLimit,
		}
	}
	NewResponseWriter(w, r).Success(out)
}

// Page renders every section of a dashboard page. Section failures are
// reported inside the payload, so a page with failed sections is still a
// 200.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	params := PageParams{
		Page:    chi.URLParam(r, "page"),
		Filters: r.URL.Query()["filter"],
	}
	if !validateRequest(rw, &params) {
		return
	}

	filters, err := parseFilters(params.Filters)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	page, err := h.views.Page(r.Context(), views.PageID(params.Page), views.PageRequest{Filters: filters})
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	cached, rows := true, 0
	for _, s := range page.Sections {
		cached = cached && s.Cached
		rows += s.Rows
	}
	setCacheStatus(w, cached)
	rw.SuccessWithMeta(page, &APIMeta{Cached: cached, Rows: rows})
}

// View renders one view as a formatted table. Unlike Page, pipeline
// failures become HTTP errors. With format=csv the table is sent as a CSV
// download instead of the JSON envelope.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, ok := parseLimit(rw, r)
	if !ok {
		return
	}
	params := ViewParams{
		View:    chi.URLParam(r, "view"),
		Filters: r.URL.Query()["filter"],
		Sort:    r.URL.Query().Get("sort"),
		Limit:   limit,
		Format:  r.URL.Query().Get("format"),
	}
	if !validateRequest(rw, &params) {
		return
	}

	filters, err := parseFilters(params.Filters)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}
	sort, err := query.ParseSort(params.Sort)
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	section, err := h.views.View(r.Context(), query.Request{
		View:    query.ViewID(params.View),
		Filters: filters,
		Sort:    sort,
		Limit:   params.Limit,
	})
	if err != nil {
		writeDomainError(rw, r, err)
		return
	}

	setCacheStatus(w, section.Cached)
	if params.Format == formatCSV {
		writeSectionCSV(w, r, section)
		return
	}
	rw.SuccessWithMeta(section, &APIMeta{Cached: section.Cached, Rows: section.Rows})
}
