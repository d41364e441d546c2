// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// pingTimeout bounds the warehouse ping of health and readiness checks.
const pingTimeout = 2 * time.Second

// HealthStatus is the payload of GET /api/v1/health.
type HealthStatus struct {
	Status             string          `json:"status"` // healthy or degraded
	Version            string          `json:"version"`
	WarehouseConnected bool            `json:"warehouse_connected"`
	Warehouse          warehouse.Stats `json:"warehouse"`
	Cache              CacheStatus     `json:"cache"`
	Uptime             float64         `json:"uptime_seconds"`
}

// CacheStatus summarizes the result cache.
type CacheStatus struct {
	Entries    int         `json:"entries"`
	TTLSeconds float64     `json:"ttl_seconds"`
	HitRate    float64     `json:"hit_rate"`
	Stats      cache.Stats `json:"stats"`
}

func (h *Handler) cacheStatus() CacheStatus {
	return CacheStatus{
		Entries:    h.cache.Len(),
		TTLSeconds: h.cache.TTL().Seconds(),
		HitRate:    h.cache.HitRate(),
		Stats:      h.cache.GetStats(),
	}
}

func (h *Handler) pingWarehouse(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return h.warehouse.Ping(ctx)
}

// Health reports warehouse connectivity, pool and breaker state and cache
// statistics. It always answers 200; Status says whether the service is
// degraded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	connected := h.pingWarehouse(r.Context()) == nil
	status := "healthy"
	if !connected {
		status = "degraded"
	}

	rw.Success(HealthStatus{
		Status:             status,
		Version:            h.version,
		WarehouseConnected: connected,
		Warehouse:          h.warehouse.Stats(),
		Cache:              h.cacheStatus(),
		Uptime:             time.Since(h.startTime).Seconds(),
	})
}

// HealthLive answers 200 while the process is running.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 only when the warehouse is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.pingWarehouse(r.Context()); err != nil {
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "warehouse is not reachable")
		return
	}

	rw.Success(map[string]interface{}{
		"ready":     true,
		"warehouse": true,
	})
}
