// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package models

import "fmt"

// ColumnKind is the logical type of a result column.
type ColumnKind string

// Column kinds understood by the query builder and formatter.
const (
	KindText      ColumnKind = "text"
	KindInteger   ColumnKind = "integer"
	KindFloat     ColumnKind = "float"
	KindDate      ColumnKind = "date"
	KindTimestamp ColumnKind = "timestamp"
)

// IsNumeric reports whether values of the kind support range comparisons
// and numeric aggregation.
func (k ColumnKind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat
}

// IsOrdered reports whether values of the kind support range comparisons.
func (k ColumnKind) IsOrdered() bool {
	return k.IsNumeric() || k == KindDate || k == KindTimestamp
}

// Column describes one column of a result set.
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

// ResultSet is an ordered, typed tabular query result.
//
// Every row holds exactly len(Columns) cells in column order. Cells are one
// of string, int64, float64, bool, time.Time or nil.
type ResultSet struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewResultSet creates an empty result set with the given schema.
func NewResultSet(columns ...Column) *ResultSet {
	return &ResultSet{Columns: columns, Rows: [][]any{}}
}

// AddRow appends a row. It returns an error if the row width does not match
// the schema.
func (rs *ResultSet) AddRow(cells ...any) error {
	if len(cells) != len(rs.Columns) {
		return fmt.Errorf("row has %d cells, schema has %d columns", len(cells), len(rs.Columns))
	}
	rs.Rows = append(rs.Rows, cells)
	return nil
}

// Len returns the number of rows. A nil result set has zero rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// IsEmpty reports whether the result set has no rows.
func (rs *ResultSet) IsEmpty() bool {
	return rs.Len() == 0
}

// ColumnNames returns the column names in order.
func (rs *ResultSet) ColumnNames() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, len(rs.Columns))
	for i, c := range rs.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (rs *ResultSet) ColumnIndex(name string) int {
	if rs == nil {
		return -1
	}
	for i, c := range rs.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row for the named column. ok is false when the
// row or column does not exist.
func (rs *ResultSet) Value(row int, column string) (value any, ok bool) {
	idx := rs.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= rs.Len() {
		return nil, false
	}
	cells := rs.Rows[row]
	if idx >= len(cells) {
		return nil, false
	}
	return cells[idx], true
}

// Column returns every value of the named column in row order, or nil if
// the column does not exist.
func (rs *ResultSet) Column(name string) []any {
	idx := rs.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]any, 0, len(rs.Rows))
	for _, cells := range rs.Rows {
		if idx < len(cells) {
			values = append(values, cells[idx])
		} else {
			values = append(values, nil)
		}
	}
	return values
}

// MissingColumns returns the names in required that the result set lacks.
func (rs *ResultSet) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if rs.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Reversed returns a copy of rs with the rows in reverse order. The cells
// are shared with rs.
func (rs *ResultSet) Reversed() *ResultSet {
	if rs == nil {
		return nil
	}
	rows := make([][]any, len(rs.Rows))
	for i, r := range rs.Rows {
		rows[len(rows)-1-i] = r
	}
	return &ResultSet{Columns: rs.Columns, Rows: rows}
}
