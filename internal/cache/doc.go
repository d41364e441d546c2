// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package cache provides the thread-safe, TTL-bounded result cache that sits in
front of the warehouse.

# Overview

A Cache is an explicitly owned object: it is constructed once per process in
cmd/server and passed to the view controller, and tests construct a fresh
one per case. There is no package-level cache.

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live expiration checked lazily on every read
  - A read-through accessor, GetOrFetch, for warehouse results
  - Manual invalidation of one key, a key prefix, or everything
  - A janitor loop (Run) that sweeps expired entries on an interval
  - Hit, miss and eviction statistics

# Validity

An entry is valid only while now - inserted_at < ttl. Expired entries are
treated as absent: the next GetOrFetch refetches synchronously before
returning.

# Concurrency

Concurrent callers that miss on the same key may each invoke their fetch
function; the last successful writer wins. Entries are immutable result
snapshots, so a duplicate fetch costs one extra warehouse query and never
corrupts state. Failed fetches are not cached.

# Usage

	c := cache.New(30 * time.Minute)

	rs, cached, err := cache.Fetch(c, key, 0, func() (*models.ResultSet, error) {
	    return client.Execute(ctx, q)
	})

	// UI refresh control
	c.InvalidatePrefix("geo_region_summary:")
	c.Clear()
*/
package cache
