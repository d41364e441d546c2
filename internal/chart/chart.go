// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package chart converts row-oriented results into the column-oriented
// frames consumed by the browser charting library.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/olistlens/internal/format"
	"github.com/tomtom215/olistlens/internal/models"
)

// Frame is a column-oriented dataset. Every slice in Data has the same
// length and Columns fixes the column order.
type Frame struct {
	Columns []string         `json:"columns"`
	Data    map[string][]any `json:"data"`
}

// Len returns the number of points in the frame.
func (f *Frame) Len() int {
	if f == nil || len(f.Columns) == 0 {
		return 0
	}
	return len(f.Data[f.Columns[0]])
}

// FromResultSet copies the named columns of rs into a frame. With no
// columns given, every column is copied. Cell values are kept raw so the
// chart can scale them.
func FromResultSet(rs *models.ResultSet, columns ...string) (*Frame, error) {
	if len(columns) == 0 {
		columns = rs.ColumnNames()
	}
	if missing := rs.MissingColumns(columns...); len(missing) > 0 {
		return nil, fmt.Errorf("chart columns not in result: %s", strings.Join(missing, ", "))
	}

	frame := &Frame{
		Columns: append([]string(nil), columns...),
		Data:    make(map[string][]any, len(columns)),
	}
	for _, c := range columns {
		frame.Data[c] = rs.Column(c)
	}
	return frame, nil
}

// FromTally builds a two-column frame of bucket labels and counts.
func FromTally(labelColumn, countColumn string, counts []format.Count) *Frame {
	labels := make([]any, len(counts))
	values := make([]any, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = c.N
	}
	return &Frame{
		Columns: []string{labelColumn, countColumn},
		Data: map[string][]any{
			labelColumn: labels,
			countColumn: values,
		},
	}
}

// Pivot spreads a tidy result into one column per distinct series value.
// The first column holds the distinct index values in row order; series
// columns follow sorted by label. An (index, series) pair absent from rs is
// a nil point. A repeated pair keeps the last value.
func Pivot(rs *models.ResultSet, index, series, value string) (*Frame, error) {
	if missing := rs.MissingColumns(index, series, value); len(missing) > 0 {
		return nil, fmt.Errorf("pivot columns not in result: %s", strings.Join(missing, ", "))
	}

	indexValues := rs.Column(index)
	seriesValues := rs.Column(series)
	values := rs.Column(value)

	var keys []any
	position := make(map[any]int)
	cells := make(map[string]map[int]any)
	for i, key := range indexValues {
		pos, ok := position[key]
		if !ok {
			pos = len(keys)
			position[key] = pos
			keys = append(keys, key)
		}

		label := seriesLabel(seriesValues[i])
		if label == index {
			return nil, fmt.Errorf("pivot series %q collides with the index column", label)
		}
		if cells[label] == nil {
			cells[label] = make(map[int]any)
		}
		cells[label][pos] = values[i]
	}

	labels := make([]string, 0, len(cells))
	for label := range cells {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	frame := &Frame{
		Columns: append([]string{index}, labels...),
		Data:    make(map[string][]any, len(labels)+1),
	}
	frame.Data[index] = keys
	if keys == nil {
		frame.Data[index] = []any{}
	}
	for _, label := range labels {
		points := make([]any, len(keys))
		for pos, v := range cells[label] {
			points[pos] = v
		}
		frame.Data[label] = points
	}
	return frame, nil
}

func seriesLabel(v any) string {
	switch s := v.(type) {
	case nil:
		return format.NotAvailable
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
