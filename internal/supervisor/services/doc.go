// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package services adapts long-running Olistlens components to suture's
// Serve(ctx) error contract.
//
//   - HTTPServerService runs the API server and shuts it down gracefully
//     when the supervisor stops it.
//   - CacheJanitorService sweeps expired result sets on an interval and
//     keeps the cache size gauge current.
package services
