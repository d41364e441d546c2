// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package query builds parameterized SQL against the pre-aggregated Olist
// warehouse tables.
//
// # Overview
//
// Every logical analytics view is bound to exactly one table of the catalog
// and declares its result schema up front. A Request names a view and
// carries filters, an optional sort and an optional limit:
//
//	b, _ := query.NewBuilder(query.BuilderConfig{
//	    ProjectID:       "olist",
//	    DatasetID:       "marts",
//	    DefaultRowLimit: 1000,
//	    MaxRowLimit:     10000,
//	})
//	q, err := b.Build(query.Request{
//	    View:    query.ViewGeoRevenuePerCustomer,
//	    Filters: []query.Filter{query.In("geographic_region", "Southeast", "South")},
//	})
//	// SELECT "state_code", ... FROM "olist"."marts"."geographic_analytics_obt"
//	// WHERE "geographic_region" IN (?, ?)
//	// ORDER BY "revenue_per_customer" DESC NULLS LAST, "state_code" ASC LIMIT 1000
//
// # Validation
//
// The per-view filter allow-list is the only gate in front of the
// warehouse. A filter on a column outside the list, an operator that does
// not fit the column kind, a value that cannot be coerced, a sort on a
// column the view does not return, or a limit out of range fails with an
// *InvalidRequestError, which matches ErrInvalidRequest.
//
// # SQL Injection Prevention
//
// Filter values are always bound as ? arguments. Identifiers come only from
// the static catalog and are double-quoted. The limit is an integer
// rendered by strconv.
//
// # Thread Safety
//
// Builder is immutable after construction and safe for concurrent use.
// WhereBuilder instances are not thread-safe.
package query
