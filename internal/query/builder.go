// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/models"
)

// DateLayout is the wire format of date filter values.
const DateLayout = "2006-01-02"

// Query is a fully built, parameterized statement against one table.
type Query struct {
	View    ViewID          `json:"view"`
	Name    string          `json:"name"`
	Table   string          `json:"table"`
	SQL     string          `json:"sql"`
	Args    []any           `json:"args"`
	Columns []models.Column `json:"columns"`
	Limit   int             `json:"limit"`
}

// Key returns the cache key of the query. Keys are prefixed with the view ID
// so that one view's entries can be invalidated together.
func (q Query) Key() string {
	return cache.GenerateKey(string(q.View), struct {
		SQL  string
		Args []any
	}{q.SQL, q.Args})
}

// KeyPrefix returns the cache key prefix shared by every query of a view.
func KeyPrefix(view ViewID) string {
	return string(view) + ":"
}

// BuilderConfig holds the warehouse identifiers and row limits.
type BuilderConfig struct {
	ProjectID       string
	DatasetID       string
	DefaultRowLimit int
	MaxRowLimit     int
}

// Builder turns requests into parameterized SQL. It performs no I/O.
type Builder struct {
	project      string
	dataset      string
	defaultLimit int
	maxLimit     int
}

// NewBuilder creates a Builder. Both identifiers are required.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("query: project identifier is required")
	}
	if cfg.DatasetID == "" {
		return nil, errors.New("query: dataset identifier is required")
	}
	if cfg.DefaultRowLimit <= 0 {
		return nil, fmt.Errorf("query: default row limit must be positive, got %d", cfg.DefaultRowLimit)
	}
	if cfg.MaxRowLimit < cfg.DefaultRowLimit {
		cfg.MaxRowLimit = cfg.DefaultRowLimit
	}
	return &Builder{
		project:      cfg.ProjectID,
		dataset:      cfg.DatasetID,
		defaultLimit: cfg.DefaultRowLimit,
		maxLimit:     cfg.MaxRowLimit,
	}, nil
}

// TableRef returns the fully qualified, quoted reference to a table.
func (b *Builder) TableRef(table string) string {
	return quoteIdent(b.project) + "." + quoteIdent(b.dataset) + "." + quoteIdent(table)
}

// Limits returns the effective default and maximum row limits of a view.
func (b *Builder) Limits(v *View) (def, max int) {
	max = b.maxLimit
	if v.MaxLimit > 0 {
		max = v.MaxLimit
	}
	def = b.defaultLimit
	if v.DefaultLimit > 0 {
		def = v.DefaultLimit
	}
	if def > max {
		def = max
	}
	return def, max
}

// Build validates req against the view registry and returns the statement.
// Every failure is an *InvalidRequestError.
func (b *Builder) Build(req Request) (Query, error) {
	view, ok := LookupView(req.View)
	if !ok {
		return Query{}, invalid(req.View, "view", "unknown view")
	}
	table, ok := LookupTable(view.Table)
	if !ok {
		return Query{}, invalid(req.View, "view", "unknown table %q", view.Table)
	}

	wb := NewWhereBuilder()
	for _, clause := range view.Where {
		wb.AddClause(clause)
	}
	for _, f := range req.Filters {
		if err := addFilter(wb, view, table, f); err != nil {
			return Query{}, err
		}
	}

	limit, err := b.limit(view, req.Limit)
	if err != nil {
		return Query{}, err
	}

	order, err := orderBy(view, req.Sort)
	if err != nil {
		return Query{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	for i, p := range view.Select {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Expr == "" {
			sb.WriteString(quoteIdent(p.Column.Name))
		} else {
			sb.WriteString(p.Expr)
			sb.WriteString(" AS ")
			sb.WriteString(quoteIdent(p.Column.Name))
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.TableRef(view.Table))

	var args []any
	if !wb.IsEmpty() {
		var where string
		where, args = wb.BuildWithPrefix()
		sb.WriteString(" ")
		sb.WriteString(where)
	}

	if len(view.GroupBy) > 0 {
		cols := make([]string, len(view.GroupBy))
		for i, c := range view.GroupBy {
			cols[i] = quoteIdent(c)
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(cols, ", "))
	}

	if order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}
	sb.WriteString(" LIMIT ")
	sb.WriteString(strconv.Itoa(limit))

	if args == nil {
		args = []any{}
	}
	return Query{
		View:    view.ID,
		Name:    view.Title,
		Table:   view.Table,
		SQL:     sb.String(),
		Args:    args,
		Columns: view.Columns(),
		Limit:   limit,
	}, nil
}

func (b *Builder) limit(view *View, requested int) (int, error) {
	def, max := b.Limits(view)
	switch {
	case requested < 0:
		return 0, invalid(view.ID, "limit", "must not be negative, got %d", requested)
	case requested == 0:
		return def, nil
	case requested > max:
		return 0, invalid(view.ID, "limit", "must be at most %d, got %d", max, requested)
	default:
		return requested, nil
	}
}

func orderBy(view *View, requested *Sort) (string, error) {
	s := requested
	if s == nil {
		s = view.DefaultSort
	}
	if s == nil {
		return "", nil
	}
	if !view.HasOutput(s.Column) {
		return "", invalid(view.ID, "sort", "column %q is not an output column", s.Column)
	}
	dir := s.Direction
	if dir == "" {
		dir = Ascending
	}
	if dir != Ascending && dir != Descending {
		return "", invalid(view.ID, "sort", "direction must be asc or desc, got %q", dir)
	}

	order := fmt.Sprintf("%s %s NULLS LAST", quoteIdent(s.Column), strings.ToUpper(string(dir)))
	// Stable tiebreak on the first output column.
	if first := view.Select[0].Column.Name; first != s.Column {
		order += ", " + quoteIdent(first) + " ASC"
	}
	return order, nil
}

func addFilter(wb *WhereBuilder, view *View, table *Table, f Filter) error {
	if !view.Allows(f.Column) {
		return invalid(view.ID, "filter", "column %q is not filterable", f.Column)
	}
	col, ok := table.Column(f.Column)
	if !ok {
		return invalid(view.ID, "filter", "column %q does not exist in %s", f.Column, table.Name)
	}
	if !f.Op.Valid() {
		return invalid(view.ID, "filter", "unknown operator %q", f.Op)
	}
	if f.Op.Ordered() && !col.Kind.IsOrdered() {
		return invalid(view.ID, "filter", "operator %s is not valid for %s column %q", f.Op, col.Kind, f.Column)
	}

	switch f.Op {
	case OpIn:
		if len(f.Values) == 0 {
			return invalid(view.ID, "filter", "operator in needs at least one value for %q", f.Column)
		}
	case OpBetween:
		if len(f.Values) != 2 {
			return invalid(view.ID, "filter", "operator between needs exactly two values for %q, got %d", f.Column, len(f.Values))
		}
	default:
		if len(f.Values) != 1 {
			return invalid(view.ID, "filter", "operator %s needs exactly one value for %q, got %d", f.Op, f.Column, len(f.Values))
		}
	}

	values := make([]any, len(f.Values))
	for i, raw := range f.Values {
		v, err := coerce(col.Kind, raw)
		if err != nil {
			return invalid(view.ID, "filter", "column %q: %v", f.Column, err)
		}
		values[i] = v
	}

	switch f.Op {
	case OpIn:
		wb.AddIn(f.Column, values)
	case OpBetween:
		wb.AddBetween(f.Column, values[0], values[1])
	default:
		wb.AddComparison(f.Column, opSQL[f.Op], values[0])
	}
	return nil
}

// coerce converts a filter value to the Go type bound for a column kind.
func coerce(kind models.ColumnKind, raw any) (any, error) {
	switch kind {
	case models.KindText:
		switch v := raw.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case int, int32, int64, float64:
			return fmt.Sprint(v), nil
		}
	case models.KindInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if v == math.Trunc(v) && !math.IsInf(v, 0) {
				return int64(v), nil
			}
			return nil, fmt.Errorf("%v is not an integer", v)
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", v)
			}
			return n, nil
		}
	case models.KindFloat:
		var f float64
		switch v := raw.(type) {
		case int:
			f = float64(v)
		case int32:
			f = float64(v)
		case int64:
			f = float64(v)
		case float64:
			f = v
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", v)
			}
			f = parsed
		default:
			return nil, fmt.Errorf("unsupported value type %T", raw)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%v is not a finite number", f)
		}
		return f, nil
	case models.KindDate, models.KindTimestamp:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			s := strings.TrimSpace(v)
			if t, err := time.Parse(DateLayout, s); err == nil {
				return t, nil
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t, nil
			}
			return nil, fmt.Errorf("%q is not a date (want %s)", v, DateLayout)
		}
	}
	return nil, fmt.Errorf("unsupported value type %T for %s column", raw, kind)
}
