// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package format

import (
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Placeholders rendered for missing values.
const (
	NotAvailable = "N/A"
	Pending      = "Pending"
)

// DateLayout is the display layout for dates.
const DateLayout = "2006-01-02"

var (
	hundred     = decimal.NewFromInt(100)
	thousand    = decimal.NewFromInt(1000)
	tenThousand = decimal.NewFromInt(10000)
)

// compactUnits are the KPI card units, smallest first.
var compactUnits = []struct {
	size   decimal.Decimal
	places int32
	suffix string
}{
	{decimal.NewFromInt(1e3), 0, "K"},
	{decimal.NewFromInt(1e6), 1, "M"},
	{decimal.NewFromInt(1e9), 1, "B"},
}

// Currency renders v as dollars with thousands separators and two decimal
// places, rounding half away from zero at the cent ("$1,234.51" for
// 1234.505). Negative amounts are prefixed "-$".
func Currency(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + grouped(d, 2)
}

// CompactCurrency renders v for KPI cards: "$1.2B", "$1.2M", "$12K",
// "$1,234" or, below a thousand, the full Currency form. The unit is picked
// after rounding, so 999,950 renders "$1.0M" rather than "$1000K".
func CompactCurrency(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(v)
	if d.Round(2).Abs().LessThan(thousand) {
		return Currency(v)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	abs := d.Abs()
	if whole := abs.Round(0); whole.LessThan(tenThousand) {
		return sign + "$" + grouped(whole, 0)
	}

	for i, u := range compactUnits {
		r := abs.Div(u.size).Round(u.places)
		if r.LessThan(thousand) || i == len(compactUnits)-1 {
			return sign + "$" + grouped(r, u.places) + u.suffix
		}
	}
	return NotAvailable
}

// Percent renders a pre-multiplied percentage with one decimal place
// ("12.3%" for 12.34).
func Percent(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).Round(1).StringFixed(1) + "%"
}

// FractionPercent renders a fraction as a percentage ("12.3%" for 0.1234).
func FractionPercent(f float64) string {
	if !finite(f) {
		return NotAvailable
	}
	return decimal.NewFromFloat(f).Mul(hundred).Round(1).StringFixed(1) + "%"
}

// Rating renders a review score out of five ("4.25/5").
func Rating(v float64) string {
	if !finite(v) {
		return NotAvailable
	}
	return decimal.NewFromFloat(v).Round(2).StringFixed(2) + "/5"
}

// Integer renders n with thousands separators.
func Integer(n int64) string {
	return humanize.Comma(n)
}

// Decimal renders v with thousands separators and the given number of
// decimal places.
func Decimal(v float64, places int32) string {
	if !finite(v) {
		return NotAvailable
	}
	if places < 0 {
		places = 0
	}
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + grouped(d, places)
}

// Date renders t as YYYY-MM-DD, or N/A for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format(DateLayout)
}

// grouped renders a non-negative decimal with comma-grouped integer digits.
func grouped(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	intPart, frac, hasFrac := strings.Cut(s, ".")

	whole := intPart
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		whole = humanize.BigComma(n)
	}
	if !hasFrac {
		return whole
	}
	return whole + "." + frac
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
