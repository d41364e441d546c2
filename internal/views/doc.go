// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package views renders dashboard pages.

A page is a fixed list of sections. Each section names one warehouse view
and how to shape its result: a formatted table (optionally with a chart
frame), KPI metric cards, or a bucket tally. The Controller runs every
section of a page concurrently, bounded by views.max_parallel_sections:

	ctrl, err := views.NewController(builder, warehouseClient, resultCache, cfg.Views)
	page, err := ctrl.Page(ctx, views.PageGeography, views.PageRequest{
		Filters: []query.Filter{query.Eq("geographic_region", "South")},
	})

Page-level filters are validated against the page, then passed to each
section whose view allows the column. A section ends ready, empty (zero
rows, shown with a placeholder message) or with a SectionError; a failed
section never blanks the rest of the page. Connectivity failures are marked
retryable, query failures are logged at error level.

Results are read through the shared cache keyed by view, SQL and bound
arguments. Refresh drops the entries of one view and RefreshAll empties the
cache.
*/
package views
