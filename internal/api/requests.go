// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

// PageParams are the validated parameters of GET /api/v1/pages/{page}.
//
//   - Page: page ID from the path
//   - Filters: repeated filter=column:op:v1[,v2] parameters
type PageParams struct {
	Page    string   `param:"page" validate:"required,identifier"`
	Filters []string `param:"filter" validate:"max=20,dive,filterexpr"`
}

// ViewParams are the validated parameters of GET /api/v1/views/{view}.
// Whether a filter column is allowed, and the row limit ceiling, are
// checked by the query builder against the view.
type ViewParams struct {
	View    string   `param:"view" validate:"required,identifier"`
	Filters []string `param:"filter" validate:"max=20,dive,filterexpr"`
	Sort    string   `param:"sort" validate:"omitempty,sortexpr"`
	Limit   int      `param:"limit" validate:"gte=0"`
	Format  string   `param:"format" validate:"omitempty,oneof=json csv"`
}

// RefreshParams are the validated parameters of DELETE /api/v1/cache/views/{view}.
type RefreshParams struct {
	View string `param:"view" validate:"required,identifier"`
}

// RecentParams are the validated parameters of GET /api/v1/stats/queries.
type RecentParams struct {
	View string `param:"view" validate:"omitempty,identifier"`
}
