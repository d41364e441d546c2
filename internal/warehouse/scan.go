// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package warehouse

import (
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
)

// scanResultSet reads every row into a ResultSet with the declared schema.
// The returned column names must match the declaration exactly; anything
// else is schema drift.
func scanResultSet(view query.ViewID, rows *sql.Rows, declared []models.Column) (*models.ResultSet, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, classify(view, err)
	}
	if err := checkSchema(view, names, declared); err != nil {
		return nil, err
	}

	rs := models.NewResultSet(declared...)
	for rows.Next() {
		cells := make([]any, len(declared))
		ptrs := make([]any, len(declared))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classify(view, err)
		}
		for i, c := range cells {
			cells[i] = toKind(declared[i].Kind, normalize(c))
		}
		if err := rs.AddRow(cells...); err != nil {
			return nil, &QueryError{View: view, Reason: "malformed row", Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify(view, err)
	}
	return rs, nil
}

func checkSchema(view query.ViewID, got []string, declared []models.Column) error {
	want := make([]string, len(declared))
	for i, c := range declared {
		want[i] = c.Name
	}
	if len(got) != len(want) {
		return &QueryError{View: view, Reason: fmt.Sprintf("schema drift: got columns [%s], want [%s]",
			strings.Join(got, ", "), strings.Join(want, ", "))}
	}
	for i := range want {
		if got[i] != want[i] {
			return &QueryError{View: view, Reason: fmt.Sprintf("schema drift: column %d is %q, want %q", i, got[i], want[i])}
		}
	}
	return nil
}

// normalize reduces driver values to string, int64, float64, bool,
// time.Time or nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool, time.Time, int64, float64:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return float64(x)
		}
		return int64(x)
	case float32:
		return float64(x)
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case interface{ Float64() float64 }:
		// DECIMAL columns
		return x.Float64()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// toKind aligns a normalized numeric cell with the declared column kind.
func toKind(kind models.ColumnKind, v any) any {
	switch kind {
	case models.KindFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	case models.KindInteger:
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt64 {
			return int64(f)
		}
	}
	return v
}
