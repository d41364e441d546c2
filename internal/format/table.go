// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/olistlens/internal/aggregate"
	"github.com/tomtom215/olistlens/internal/models"
)

// Kind selects how a field is rendered.
type Kind string

// Field kinds.
const (
	KindText            Kind = "text"
	KindInteger         Kind = "integer"
	KindDecimal         Kind = "decimal"
	KindCurrency        Kind = "currency"
	KindCompactCurrency Kind = "compact_currency"
	KindPercent         Kind = "percent"
	KindFractionPercent Kind = "fraction_percent"
	KindRating          Kind = "rating"
	KindIdentifier      Kind = "identifier"
	KindDate            Kind = "date"
	KindBucket          Kind = "bucket"
)

// Field describes one display column derived from a result column.
type Field struct {
	// Column is the source column in the result set.
	Column string
	// Key is the display key. Defaults to Column.
	Key string
	// Label defaults to Label(Column).
	Label string
	Kind  Kind
	// Places is used by KindDecimal. Defaults to 2.
	Places int32
	// Bucketer is required for KindBucket.
	Bucketer *Bucketer
	// NullText replaces null cells. Defaults to Pending for delivery
	// columns and N/A otherwise.
	NullText string
}

func (f Field) key() string {
	if f.Key != "" {
		return f.Key
	}
	return f.Column
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return Label(f.key())
}

func (f Field) nullText() string {
	switch {
	case f.NullText != "":
		return f.NullText
	case f.Kind == KindBucket && f.Bucketer != nil:
		return f.Bucketer.NullLabel()
	case strings.Contains(f.Column, "delivery"):
		return Pending
	default:
		return NotAvailable
	}
}

// Table formats every row of rs. It fails if a field names a column the
// result set does not have, or a bucket field has no Bucketer.
func Table(rs *models.ResultSet, fields []Field) (models.DisplayTable, error) {
	table := models.DisplayTable{
		Columns: make([]models.DisplayColumn, len(fields)),
		Rows:    make([]models.DisplayRow, 0, rs.Len()),
	}

	required := make([]string, len(fields))
	for i, f := range fields {
		if f.Kind == KindBucket && f.Bucketer == nil {
			return models.DisplayTable{}, fmt.Errorf("field %s: bucket kind needs a bucketer", f.key())
		}
		required[i] = f.Column
		table.Columns[i] = models.DisplayColumn{Key: f.key(), Label: f.label()}
	}
	if missing := rs.MissingColumns(required...); len(missing) > 0 {
		return models.DisplayTable{}, fmt.Errorf("result is missing columns: %s", strings.Join(missing, ", "))
	}

	indexes := make([]int, len(fields))
	for i, f := range fields {
		indexes[i] = rs.ColumnIndex(f.Column)
	}

	for r := 0; r < rs.Len(); r++ {
		row := make(models.DisplayRow, len(fields))
		for i, f := range fields {
			row[f.key()] = Cell(f, rs.Rows[r][indexes[i]])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Metrics formats the first row of rs as KPI values. An empty result yields
// the null text for every field.
func Metrics(rs *models.ResultSet, fields []Field) []models.Metric {
	out := make([]models.Metric, len(fields))
	for i, f := range fields {
		out[i] = models.Metric{
			Key:   f.key(),
			Label: f.label(),
			Value: Cell(f, aggregate.ExtractColumn(rs, f.Column, nil)),
		}
	}
	return out
}

// Cell formats a single result cell for f. It never returns a raw number
// for numeric kinds: unconvertible values render as the null text.
func Cell(f Field, v any) string {
	if v == nil {
		return f.nullText()
	}

	switch f.Kind {
	case KindText, "":
		return text(v)
	case KindIdentifier:
		return MaskIdentifier(text(v))
	case KindDate:
		if t, ok := v.(time.Time); ok {
			return Date(t)
		}
		return text(v)
	case KindBucket:
		return f.Bucketer.LabelOf(v)
	case KindInteger:
		if n, ok := v.(int64); ok {
			return Integer(n)
		}
	}

	x, ok := aggregate.ToFloat(v)
	if !ok || math.IsInf(x, 0) {
		return f.nullText()
	}

	switch f.Kind {
	case KindInteger:
		return Integer(int64(math.Round(x)))
	case KindDecimal:
		places := f.Places
		if places == 0 {
			places = 2
		}
		return Decimal(x, places)
	case KindCurrency:
		return Currency(x)
	case KindCompactCurrency:
		return CompactCurrency(x)
	case KindPercent:
		return Percent(x)
	case KindFractionPercent:
		return FractionPercent(x)
	case KindRating:
		return Rating(x)
	default:
		return text(v)
	}
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return Date(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
