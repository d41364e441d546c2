// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package warehouse

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/olistlens/internal/query"
)

// DefaultHistorySize is the number of executions kept per view.
const DefaultHistorySize = 10

// Execution records one warehouse call.
type Execution struct {
	View       query.ViewID `json:"view"`
	Table      string       `json:"table"`
	Rows       int          `json:"rows"`
	DurationMS float64      `json:"duration_ms"`
	Attempts   int          `json:"attempts"`
	ErrorType  string       `json:"error_type,omitempty"`
	Error      string       `json:"error,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// ViewStats summarizes the recent executions of one view.
type ViewStats struct {
	View          query.ViewID `json:"view"`
	Executions    int          `json:"executions"`
	Errors        int          `json:"errors"`
	AvgDurationMS float64      `json:"avg_duration_ms"`
	P95DurationMS float64      `json:"p95_duration_ms"`
	MaxDurationMS float64      `json:"max_duration_ms"`
	LastRows      int          `json:"last_rows"`
	LastRun       time.Time    `json:"last_run"`
}

// History keeps a sliding window of the most recent executions per view.
type History struct {
	mu      sync.RWMutex
	size    int
	entries map[query.ViewID][]Execution
}

// NewHistory creates a History holding up to size executions per view.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		entries: make(map[query.ViewID][]Execution),
	}
}

// Record adds an execution, dropping the oldest one of its view when full.
func (h *History) Record(e Execution) {
	h.mu.Lock()
	defer h.mu.Unlock()

	window := append(h.entries[e.View], e)
	if len(window) > h.size {
		window = window[len(window)-h.size:]
	}
	h.entries[e.View] = window
}

// Recent returns the executions of a view, oldest first.
func (h *History) Recent(view query.ViewID) []Execution {
	h.mu.RLock()
	defer h.mu.RUnlock()

	window := h.entries[view]
	out := make([]Execution, len(window))
	copy(out, window)
	return out
}

// Stats returns per-view summaries sorted by average duration, slowest first.
func (h *History) Stats() []ViewStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := make([]ViewStats, 0, len(h.entries))
	for view, window := range h.entries {
		if len(window) == 0 {
			continue
		}

		durations := make([]float64, len(window))
		var sum float64
		errs := 0
		for i, e := range window {
			durations[i] = e.DurationMS
			sum += e.DurationMS
			if e.ErrorType != "" {
				errs++
			}
		}
		sort.Float64s(durations)
		last := window[len(window)-1]

		stats = append(stats, ViewStats{
			View:          view,
			Executions:    len(window),
			Errors:        errs,
			AvgDurationMS: sum / float64(len(window)),
			P95DurationMS: percentile(durations, 0.95),
			MaxDurationMS: durations[len(durations)-1],
			LastRows:      last.Rows,
			LastRun:       last.Timestamp,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AvgDurationMS != stats[j].AvgDurationMS {
			return stats[i].AvgDurationMS > stats[j].AvgDurationMS
		}
		return stats[i].View < stats[j].View
	})
	return stats
}

// percentile returns the percentile value from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := int(float64(len(sorted)-1) * p)
	return sorted[index]
}
