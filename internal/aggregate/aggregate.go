// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package aggregate extracts scalars from result sets that may be empty.
//
// A filter that matches nothing yields a result set with zero rows, or a
// single row whose aggregate cell is NULL. Every helper here is total: it
// returns the caller's default in those cases and never panics or errors.
package aggregate

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/olistlens/internal/models"
)

// Number is the set of types ExtractAggregate can produce.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// ExtractScalar returns row 0, column 0 of rs, or def when rs is nil, has no
// rows or columns, or the cell is null.
func ExtractScalar(rs *models.ResultSet, def any) any {
	if rs == nil || len(rs.Columns) == 0 {
		return def
	}
	return cell(rs, 0, 0, def)
}

// ExtractColumn returns row 0 of the named column, or def.
func ExtractColumn(rs *models.ResultSet, column string, def any) any {
	if rs == nil {
		return def
	}
	idx := rs.ColumnIndex(column)
	if idx < 0 {
		return def
	}
	return cell(rs, 0, idx, def)
}

// ExtractAggregate is ExtractScalar for numeric results. Integer, float and
// numeric string cells are converted to T; anything else yields def.
func ExtractAggregate[T Number](rs *models.ResultSet, def T) T {
	v := ExtractScalar(rs, nil)
	if v == nil {
		return def
	}
	return convert(v, def)
}

// ExtractAggregateColumn is ExtractColumn for numeric results.
func ExtractAggregateColumn[T Number](rs *models.ResultSet, column string, def T) T {
	v := ExtractColumn(rs, column, nil)
	if v == nil {
		return def
	}
	return convert(v, def)
}

// ToFloat converts a numeric cell to float64. ok is false for null and
// non-numeric cells.
func ToFloat(v any) (f float64, ok bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(parsed) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func cell(rs *models.ResultSet, row, col int, def any) any {
	if row >= len(rs.Rows) {
		return def
	}
	r := rs.Rows[row]
	if col >= len(r) || r[col] == nil {
		return def
	}
	return r[col]
}

func convert[T Number](v any, def T) T {
	// Exact integer path so large int64 values survive.
	if n, ok := v.(int64); ok {
		var zero T
		switch any(zero).(type) {
		case float32, float64:
			return T(float64(n))
		default:
			return T(n)
		}
	}

	f, ok := ToFloat(v)
	if !ok || math.IsInf(f, 0) {
		return def
	}
	return T(f)
}
