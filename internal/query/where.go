// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("total_orders > 0")
//	wb.AddComparison("customer_state", "=", "SP")
//	wb.AddIn("customer_segment", []any{"VIP", "Loyal"})
//	whereClause, args := wb.Build()
//	// total_orders > 0 AND "customer_state" = ? AND "customer_segment" IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []any{},
	}
}

// AddClause adds a raw WHERE clause with its arguments. Only static
// predicates from the view registry go through here.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddComparison adds "<column> <operator> ?".
func (wb *WhereBuilder) AddComparison(column, operator string, value any) *WhereBuilder {
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s %s ?", quoteIdent(column), operator))
	wb.args = append(wb.args, value)
	return wb
}

// AddIn adds "<column> IN (?, ?, ...)". An empty slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []any) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", quoteIdent(column), strings.Join(placeholders, ", ")))
	return wb
}

// AddBetween adds the inclusive range "<column> BETWEEN ? AND ?".
func (wb *WhereBuilder) AddBetween(column string, low, high any) *WhereBuilder {
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s BETWEEN ? AND ?", quoteIdent(column)))
	wb.args = append(wb.args, low, high)
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", []) if no clauses were
// added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
