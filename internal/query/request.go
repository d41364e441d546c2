// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"fmt"
	"strings"
)

// Op is a filter comparison operator.
type Op string

// Supported filter operators.
const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpGt      Op = "gt"
	OpGte     Op = "gte"
	OpLt      Op = "lt"
	OpLte     Op = "lte"
	OpIn      Op = "in"
	OpBetween Op = "between"
)

var opSQL = map[Op]string{
	OpEq:  "=",
	OpNeq: "<>",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpIn, OpBetween:
		return true
	}
	return false
}

// Ordered reports whether op needs an ordered column kind.
func (op Op) Ordered() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpBetween:
		return true
	}
	return false
}

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Filter restricts a base table column. Values hold one element for the
// comparison operators, two for between and one or more for in.
type Filter struct {
	Column string `json:"column"`
	Op     Op     `json:"op"`
	Values []any  `json:"values"`
}

// Eq is shorthand for an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Values: []any{value}}
}

// In is shorthand for a membership filter.
func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Values: values}
}

// Between is shorthand for an inclusive range filter.
func Between(column string, low, high any) Filter {
	return Filter{Column: column, Op: OpBetween, Values: []any{low, high}}
}

// Sort orders the result by an output column.
type Sort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Request is a logical query against one view.
type Request struct {
	View    ViewID   `json:"view"`
	Filters []Filter `json:"filters,omitempty"`
	Sort    *Sort    `json:"sort,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// ParseFilter parses the wire form "column:op:v1[,v2...]". A bare
// "column:value" is an equality filter. Values stay strings; the builder
// coerces them to the column kind.
func ParseFilter(s string) (Filter, error) {
	parts := strings.SplitN(s, ":", 3)
	switch len(parts) {
	case 2:
		if parts[0] == "" {
			return Filter{}, &InvalidRequestError{Field: "filter", Reason: fmt.Sprintf("missing column in %q", s)}
		}
		return Filter{Column: parts[0], Op: OpEq, Values: []any{parts[1]}}, nil
	case 3:
		if parts[0] == "" {
			return Filter{}, &InvalidRequestError{Field: "filter", Reason: fmt.Sprintf("missing column in %q", s)}
		}
		op := Op(strings.ToLower(parts[1]))
		if !op.Valid() {
			return Filter{}, &InvalidRequestError{Field: "filter", Reason: fmt.Sprintf("unknown operator %q", parts[1])}
		}
		raw := []string{parts[2]}
		if op == OpIn || op == OpBetween {
			raw = strings.Split(parts[2], ",")
		}
		values := make([]any, len(raw))
		for i, v := range raw {
			values[i] = v
		}
		return Filter{Column: parts[0], Op: op, Values: values}, nil
	default:
		return Filter{}, &InvalidRequestError{Field: "filter", Reason: fmt.Sprintf("malformed filter %q", s)}
	}
}

// ParseSort parses "column[:asc|desc]". The direction defaults to asc.
func ParseSort(s string) (*Sort, error) {
	if s == "" {
		return nil, nil
	}
	column, dir, found := strings.Cut(s, ":")
	if column == "" {
		return nil, &InvalidRequestError{Field: "sort", Reason: fmt.Sprintf("missing column in %q", s)}
	}
	d := Ascending
	if found {
		d = Direction(strings.ToLower(dir))
	}
	if d != Ascending && d != Descending {
		return nil, &InvalidRequestError{Field: "sort", Reason: fmt.Sprintf("direction must be asc or desc, got %q", dir)}
	}
	return &Sort{Column: column, Direction: d}, nil
}
