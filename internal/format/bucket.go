// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package format

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/olistlens/internal/aggregate"
)

// Bucketer assigns a value to the first threshold it does not exceed.
// Upper bounds are inclusive; values above the last threshold get the
// overflow label.
type Bucketer struct {
	thresholds []float64
	labels     []string
	nullLabel  string
}

// Count is the number of values that fell into one bucket.
type Count struct {
	Label string
	N     int64
}

// NewBucketer creates a Bucketer. thresholds must be finite and strictly
// ascending, and labels must hold one more entry than thresholds.
func NewBucketer(thresholds []float64, labels []string) (*Bucketer, error) {
	if len(thresholds) == 0 {
		return nil, errors.New("bucketer needs at least one threshold")
	}
	if len(labels) != len(thresholds)+1 {
		return nil, fmt.Errorf("bucketer needs %d labels for %d thresholds, got %d",
			len(thresholds)+1, len(thresholds), len(labels))
	}
	for i, t := range thresholds {
		if !finite(t) {
			return nil, fmt.Errorf("threshold %d is not finite", i)
		}
		if i > 0 && t <= thresholds[i-1] {
			return nil, fmt.Errorf("thresholds must be strictly ascending: %v after %v", t, thresholds[i-1])
		}
	}
	return &Bucketer{
		thresholds: append([]float64(nil), thresholds...),
		labels:     append([]string(nil), labels...),
	}, nil
}

// MustBucketer is like NewBucketer but panics on invalid input. It is meant
// for package-level presets.
func MustBucketer(thresholds []float64, labels []string) *Bucketer {
	b, err := NewBucketer(thresholds, labels)
	if err != nil {
		panic(err)
	}
	return b
}

// WithNullLabel returns a copy of b that labels null values with label.
func (b *Bucketer) WithNullLabel(label string) *Bucketer {
	c := *b
	c.nullLabel = label
	return &c
}

// Label returns the bucket label for v. NaN is treated as null.
func (b *Bucketer) Label(v float64) string {
	if math.IsNaN(v) {
		return b.NullLabel()
	}
	for i, t := range b.thresholds {
		if v <= t {
			return b.labels[i]
		}
	}
	return b.labels[len(b.labels)-1]
}

// LabelOf buckets a result cell. Null and non-numeric cells get the null
// label.
func (b *Bucketer) LabelOf(v any) string {
	f, ok := aggregate.ToFloat(v)
	if !ok {
		return b.NullLabel()
	}
	return b.Label(f)
}

// NullLabel returns the label used for null values.
func (b *Bucketer) NullLabel() string {
	if b.nullLabel == "" {
		return NotAvailable
	}
	return b.nullLabel
}

// Labels returns the bucket labels in ascending order, followed by the null
// label when one is configured.
func (b *Bucketer) Labels() []string {
	out := append([]string(nil), b.labels...)
	if b.nullLabel != "" {
		out = append(out, b.nullLabel)
	}
	return out
}

// Tally counts values per bucket. Every label from Labels is present, in
// order, including those with a zero count. Unlabeled nulls are dropped.
func (b *Bucketer) Tally(values []any) []Count {
	labels := b.Labels()
	counts := make([]Count, len(labels))
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		counts[i].Label = l
		index[l] = i
	}
	for _, v := range values {
		if i, ok := index[b.LabelOf(v)]; ok {
			counts[i].N++
		}
	}
	return counts
}

// Presets used by the dashboard pages.
var (
	CustomerValueTiers = MustBucketer(
		[]float64{100, 500, 1000, 2000},
		[]string{"$0-100", "$100-500", "$500-1K", "$1K-2K", "$2K+"},
	)

	OrderValueTiers = MustBucketer(
		[]float64{50, 100, 200, 500},
		[]string{"$0-50", "$50-100", "$100-200", "$200-500", "$500+"},
	)

	DeliverySpeedTiers = MustBucketer(
		[]float64{7, 14, 30},
		[]string{"Fast", "Standard", "Slow", "Very Slow"},
	).WithNullLabel("Not Delivered")

	PurchaseFrequencyTiers = MustBucketer(
		[]float64{1, 3, 6},
		[]string{"One-time", "Occasional", "Regular", "Frequent"},
	)

	ReviewDelayTiers = MustBucketer(
		[]float64{1, 7, 14},
		[]string{"Next Day", "Within a Week", "Within Two Weeks", "Over Two Weeks"},
	)
)
