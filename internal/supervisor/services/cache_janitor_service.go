// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package services

import (
	"context"
	"time"

	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/metrics"
)

// Sweeper is the part of the result cache the janitor needs.
// *cache.Cache satisfies it.
type Sweeper interface {
	DeleteExpired() int
	Len() int
}

// CacheJanitorService removes expired result sets on a fixed interval.
// Expired entries are never served; the sweep only bounds memory held by
// results nobody asked for again.
type CacheJanitorService struct {
	cache    Sweeper
	interval time.Duration
	name     string
}

// NewCacheJanitorService creates a janitor. A non-positive interval
// defaults to 5 minutes.
func NewCacheJanitorService(c Sweeper, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheJanitorService{
		cache:    c,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Sweep()
		}
	}
}

// Sweep runs one pass and returns the number of entries removed.
func (j *CacheJanitorService) Sweep() int {
	removed := j.cache.DeleteExpired()
	remaining := j.cache.Len()

	metrics.RecordCacheInvalidation("expired", removed)
	metrics.CacheSize.Set(float64(remaining))

	if removed > 0 {
		logging.Debug().
			Int("removed", removed).
			Int("remaining", remaining).
			Msg("Expired cache entries swept")
	}
	return removed
}

// String identifies the service in supervisor logs.
func (j *CacheJanitorService) String() string {
	return j.name
}
