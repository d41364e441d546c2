// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package models

// DisplayRow is one presentation-formatted row keyed by column name. Every
// value is a final human-readable string.
type DisplayRow map[string]string

// DisplayColumn pairs an internal column key with its human-readable label.
type DisplayColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// DisplayTable is an ordered set of display rows ready for rendering.
type DisplayTable struct {
	Columns []DisplayColumn `json:"columns"`
	Rows    []DisplayRow    `json:"rows"`
}

// Len returns the number of rows.
func (t *DisplayTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Metric is a single formatted KPI value.
type Metric struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}
