// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package models holds the data shapes shared across the pipeline: the raw
// ResultSet returned by the warehouse client with its declared column
// kinds, and the display-ready DisplayTable and Metric values produced by
// the formatter. Display values are always strings; no raw number reaches
// the presentation layer.
package models
