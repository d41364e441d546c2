// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWarehouseQuery(t *testing.T) {
	tests := []struct {
		name      string
		view      string
		duration  time.Duration
		rows      int
		errorType string
	}{
		{"successful grouped query", "test_geo_region_summary", 10 * time.Millisecond, 5, ""},
		{"empty result", "test_order_detail", time.Millisecond, 0, ""},
		{"connectivity failure", "test_review_detail", 2 * time.Second, 0, "connectivity"},
		{"schema drift", "test_customer_top_spenders", 5 * time.Millisecond, 0, "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(WarehouseQueryErrors.WithLabelValues(tt.view, "connectivity")) +
				testutil.ToFloat64(WarehouseQueryErrors.WithLabelValues(tt.view, "query"))

			RecordWarehouseQuery(tt.view, tt.duration, tt.rows, tt.errorType)

			after := testutil.ToFloat64(WarehouseQueryErrors.WithLabelValues(tt.view, "connectivity")) +
				testutil.ToFloat64(WarehouseQueryErrors.WithLabelValues(tt.view, "query"))

			wantDelta := 0.0
			if tt.errorType != "" {
				wantDelta = 1
			}
			if after-before != wantDelta {
				t.Errorf("error counter delta = %v, want %v", after-before, wantDelta)
			}
		})
	}
}

func TestRecordWarehouseRetry(t *testing.T) {
	c := WarehouseQueryRetries.WithLabelValues("test_retry_view")
	before := testutil.ToFloat64(c)
	RecordWarehouseRetry("test_retry_view")
	RecordWarehouseRetry("test_retry_view")
	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Errorf("retries delta = %v, want 2", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("test_cache_view")
	misses := CacheMisses.WithLabelValues("test_cache_view")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	RecordCacheLookup("test_cache_view", true)
	RecordCacheLookup("test_cache_view", true)
	RecordCacheLookup("test_cache_view", false)

	if got := testutil.ToFloat64(hits) - h0; got != 2 {
		t.Errorf("hits delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(misses) - m0; got != 1 {
		t.Errorf("misses delta = %v, want 1", got)
	}
}

func TestRecordCacheInvalidation(t *testing.T) {
	c := CacheInvalidations.WithLabelValues("test_reason")
	before := testutil.ToFloat64(c)

	RecordCacheInvalidation("test_reason", 0)
	RecordCacheInvalidation("test_reason", 3)

	if got := testutil.ToFloat64(c) - before; got != 3 {
		t.Errorf("invalidations delta = %v, want 3", got)
	}
}

func TestRecordSection(t *testing.T) {
	c := SectionRenders.WithLabelValues("test_page", "empty")
	before := testutil.ToFloat64(c)
	RecordSection("test_page", "empty")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("section delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/test/endpoint", "200")
	before := testutil.ToFloat64(c)
	RecordAPIRequest("GET", "/test/endpoint", "200", 25*time.Millisecond)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest_Concurrent(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active requests = %v, want %v", got, before)
	}
}

func TestMetricsAreRegistered(t *testing.T) {
	collectors := []prometheus.Collector{
		WarehouseQueryDuration,
		WarehouseQueryErrors,
		WarehouseQueryRows,
		WarehouseQueryRetries,
		WarehouseOpenConnections,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheInvalidations,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		SectionRenders,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		AppInfo,
		AppUptime,
	}

	for i, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)
		if len(ch) == 0 {
			t.Errorf("collector %d describes no metrics", i)
		}
	}
}
