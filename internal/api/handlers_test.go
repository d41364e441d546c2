// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/format"
	"github.com/tomtom215/olistlens/internal/middleware"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/views"
	"github.com/tomtom215/olistlens/internal/warehouse"
	"github.com/tomtom215/olistlens/internal/warehouse/warehousetest"
)

// stubExecutor returns one synthetic row per query unless the view is
// configured to fail.
type stubExecutor struct {
	mu    sync.Mutex
	calls int
	fail  map[query.ViewID]error
}

func (s *stubExecutor) Execute(_ context.Context, q query.Query) (*models.ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if err := s.fail[q.View]; err != nil {
		return nil, err
	}
	rs := models.NewResultSet(q.Columns...)
	row := make([]any, len(q.Columns))
	for i, c := range q.Columns {
		switch c.Kind {
		case models.KindText:
			row[i] = "SP"
		case models.KindInteger:
			row[i] = int64(7)
		case models.KindFloat:
			row[i] = 250.5
		default:
			row[i] = time.Date(2018, 5, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	_ = rs.AddRow(row...)
	return rs, nil
}

func (s *stubExecutor) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubWarehouse satisfies Warehouse without a database.
type stubWarehouse struct {
	pingErr error
	history *warehouse.History
}

func (s *stubWarehouse) Ping(context.Context) error  { return s.pingErr }
func (s *stubWarehouse) History() *warehouse.History { return s.history }
func (s *stubWarehouse) Stats() warehouse.Stats {
	return warehouse.Stats{OpenConnections: 1, Idle: 1, BreakerState: "closed"}
}

type testServer struct {
	handler http.Handler
	exec    *stubExecutor
	wh      *stubWarehouse
	cache   *cache.Cache
	perfMon *middleware.PerformanceMonitor
}

func newTestServer(t *testing.T, mwCfg *ChiMiddlewareConfig) *testServer {
	t.Helper()

	exec := &stubExecutor{fail: make(map[query.ViewID]error)}
	wh := &stubWarehouse{history: warehouse.NewHistory(10)}
	return newTestServerWith(t, exec, wh, mwCfg)
}

func newTestServerWith(t *testing.T, exec views.Executor, wh Warehouse, mwCfg *ChiMiddlewareConfig) *testServer {
	t.Helper()

	c := cache.New(time.Minute)
	builder := warehousetest.Builder(t)
	ctrl, err := views.NewController(builder, exec, c, config.ViewsConfig{MaxParallelSections: 4, SectionTimeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}

	perfMon := middleware.NewPerformanceMonitor(100, time.Minute)
	h, err := NewHandler(HandlerDeps{Views: ctrl, Warehouse: wh, Cache: c, Builder: builder, PerfMon: perfMon, Version: "test"})
	if err != nil {
		t.Fatal(err)
	}

	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
		mwCfg.RefreshPerMinute = 0
	}

	ts := &testServer{
		handler: NewRouter(h, NewChiMiddleware(mwCfg), perfMon).SetupChi(),
		cache:   c,
		perfMon: perfMon,
	}
	if se, ok := exec.(*stubExecutor); ok {
		ts.exec = se
	}
	if sw, ok := wh.(*stubWarehouse); ok {
		ts.wh = sw
	}
	return ts
}

func (ts *testServer) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// envelope decodes the response envelope, leaving Data raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(HandlerDeps{}); err == nil {
		t.Error("expected error for missing dependencies")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health HealthStatus
	decode(t, rec, &health)
	if health.Status != "healthy" || !health.WarehouseConnected || health.Version != "test" {
		t.Errorf("health = %+v", health)
	}
	if health.Warehouse.BreakerState != "closed" || health.Cache.TTLSeconds != 60 {
		t.Errorf("health details = %+v", health)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing on health endpoint")
	}

	ts.wh.pingErr = &warehouse.ConnectivityError{Err: errors.New("dial tcp: refused")}

	rec = ts.do(t, http.MethodGet, "/api/v1/health")
	decode(t, rec, &health)
	if rec.Code != http.StatusOK || health.Status != "degraded" || health.WarehouseConnected {
		t.Errorf("degraded health = %d %+v", rec.Code, health)
	}

	if rec := ts.do(t, http.MethodGet, "/api/v1/health/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
}

func TestHealthReady_OK(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/api/v1/health/ready")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestListPagesAndViews(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	var pages []PageSummary
	decode(t, ts.do(t, http.MethodGet, "/api/v1/pages"), &pages)
	if len(pages) != len(views.Pages()) {
		t.Fatalf("pages = %d", len(pages))
	}
	for _, p := range pages {
		if len(p.Sections) == 0 || p.Filters == nil {
			t.Errorf("page %s = %+v", p.ID, p)
		}
	}

	var list []ViewSummary
	decode(t, ts.do(t, http.MethodGet, "/api/v1/views"), &list)
	if len(list) != len(query.Views()) {
		t.Fatalf("views = %d", len(list))
	}
	for _, v := range list {
		if len(v.Columns) == 0 || v.DefaultLimit <= 0 || v.MaxLimit < v.DefaultLimit {
			t.Errorf("view %s = %+v", v.ID, v)
		}
	}
}

func TestPage_RendersAndCaches(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/pages/overview?filter=customer_state:SP")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var page views.Page
	env := decode(t, rec, &page)
	if !env.Success || env.Meta == nil || env.Meta.Cached {
		t.Errorf("first render envelope = %+v", env)
	}
	if rec.Header().Get(middleware.CacheStatusHeader) != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", rec.Header().Get(middleware.CacheStatusHeader))
	}
	if page.ID != views.PageOverview || len(page.Sections) == 0 {
		t.Fatalf("page = %+v", page)
	}
	for _, s := range page.Sections {
		if s.Status != views.StatusReady {
			t.Errorf("section %s status = %s (%+v)", s.ID, s.Status, s.Error)
		}
	}
	if len(page.Filters) != 1 || page.Filters[0].Column != "customer_state" {
		t.Errorf("filters = %+v", page.Filters)
	}

	calls := ts.exec.count()
	rec = ts.do(t, http.MethodGet, "/api/v1/pages/overview?filter=customer_state:SP")
	env = decode(t, rec, nil)
	if !env.Meta.Cached || rec.Header().Get(middleware.CacheStatusHeader) != "HIT" {
		t.Errorf("second render should be served from cache: %+v", env.Meta)
	}
	if ts.exec.count() != calls {
		t.Errorf("warehouse calls = %d, want %d", ts.exec.count(), calls)
	}
}

func TestPage_SectionFailureIsStill200(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.exec.fail[query.ViewOrderOverviewKPIs] = &warehouse.ConnectivityError{View: query.ViewOrderOverviewKPIs, Err: errors.New("timeout")}

	rec := ts.do(t, http.MethodGet, "/api/v1/pages/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page views.Page
	decode(t, rec, &page)

	failed := 0
	for _, s := range page.Sections {
		if s.Status == views.StatusError {
			failed++
			if s.Error == nil || s.Error.Kind != views.ErrorKindConnectivity || !s.Error.Retryable {
				t.Errorf("section %s error = %+v", s.ID, s.Error)
			}
		}
	}
	if failed != 1 {
		t.Errorf("failed sections = %d, want 1", failed)
	}
}

func TestPage_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown page", "/api/v1/pages/billing", http.StatusNotFound, ErrCodeNotFound},
		{"filter not accepted", "/api/v1/pages/overview?filter=review_score:5", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"malformed filter", "/api/v1/pages/overview?filter=customer_state", http.StatusBadRequest, ErrCodeValidationFailed},
		{"bad page id", "/api/v1/pages/Over%20view", http.StatusBadRequest, ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			env := decode(t, rec, nil)
			if env.Success || env.Error == nil || env.Error.Code != tt.code {
				t.Errorf("envelope = %+v", env.Error)
			}
			if env.Error.RequestID == "" || env.Error.RequestID != rec.Header().Get(middleware.RequestIDHeader) {
				t.Errorf("request ID = %q, header %q", env.Error.RequestID, rec.Header().Get(middleware.RequestIDHeader))
			}
		})
	}
}

func TestView_Renders(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/views/customer_top_spenders?filter=customer_state:in:SP,RJ&sort=total_spent:desc&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var section views.Section
	env := decode(t, rec, &section)
	if section.Status != views.StatusReady || section.Table == nil || section.Table.Len() != 1 {
		t.Fatalf("section = %+v", section)
	}
	if env.Meta.Rows != 1 {
		t.Errorf("meta rows = %d", env.Meta.Rows)
	}
	if got := section.Table.Rows[0]["total_spent"]; got != "$250.50" {
		t.Errorf("total_spent = %q, want $250.50", got)
	}
}

func TestView_Errors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.exec.fail[query.ViewOrderDetail] = &warehouse.ConnectivityError{View: query.ViewOrderDetail, Err: errors.New("connection reset")}
	ts.exec.fail[query.ViewReviewDetail] = &warehouse.QueryError{View: query.ViewReviewDetail, Reason: "missing columns", Err: errors.New("review_score")}

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown view", "/api/v1/views/billing_summary", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"column not filterable", "/api/v1/views/customer_top_spenders?filter=predicted_annual_clv:gt:3", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"limit not a number", "/api/v1/views/customer_top_spenders?limit=ten", http.StatusBadRequest, ErrCodeValidationFailed},
		{"negative limit", "/api/v1/views/customer_top_spenders?limit=-1", http.StatusBadRequest, ErrCodeValidationFailed},
		{"limit above maximum", "/api/v1/views/customer_top_spenders?limit=1000000", http.StatusBadRequest, ErrCodeInvalidRequest},
		{"bad sort", "/api/v1/views/customer_top_spenders?sort=total_spent:up", http.StatusBadRequest, ErrCodeValidationFailed},
		{"warehouse unreachable", "/api/v1/views/order_detail", http.StatusServiceUnavailable, ErrCodeWarehouseUnavailable},
		{"query failed", "/api/v1/views/review_detail", http.StatusBadGateway, ErrCodeQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			env := decode(t, rec, nil)
			if env.Error == nil || env.Error.Code != tt.code {
				t.Fatalf("error = %+v, want %s", env.Error, tt.code)
			}
			if tt.status == http.StatusServiceUnavailable {
				if !env.Error.Retryable || rec.Header().Get("Retry-After") == "" {
					t.Error("503 should be retryable with Retry-After")
				}
			}
			if tt.status == http.StatusBadGateway && strings.Contains(env.Error.Message, "review_score") {
				t.Errorf("query error details leaked: %q", env.Error.Message)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	ts.do(t, http.MethodGet, "/api/v1/views/order_detail")
	ts.do(t, http.MethodGet, "/api/v1/views/order_detail?limit=3")
	ts.do(t, http.MethodGet, "/api/v1/views/review_detail")
	if ts.cache.Len() != 3 {
		t.Fatalf("cache entries = %d, want 3", ts.cache.Len())
	}

	var result RefreshResult
	rec := ts.do(t, http.MethodDelete, "/api/v1/cache/views/order_detail")
	decode(t, rec, &result)
	if rec.Code != http.StatusOK || result.Removed != 2 || result.View != query.ViewOrderDetail {
		t.Errorf("refresh view = %d %+v", rec.Code, result)
	}

	var status CacheStatus
	decode(t, ts.do(t, http.MethodGet, "/api/v1/cache"), &status)
	if status.Entries != 1 {
		t.Errorf("entries after refresh = %d, want 1", status.Entries)
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/cache")
	decode(t, rec, &result)
	if result.Removed != 1 || ts.cache.Len() != 0 {
		t.Errorf("refresh all = %+v, cache %d", result, ts.cache.Len())
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/cache/views/nope")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown view refresh status = %d", rec.Code)
	}
}

func TestRefresh_RateLimited(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.RefreshPerMinute = 1
	cfg.RefreshBurst = 1
	ts := newTestServer(t, cfg)

	if rec := ts.do(t, http.MethodDelete, "/api/v1/cache"); rec.Code != http.StatusOK {
		t.Fatalf("first refresh = %d", rec.Code)
	}
	rec := ts.do(t, http.MethodDelete, "/api/v1/cache/views/order_detail")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second refresh = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	env := decode(t, rec, nil)
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests || !env.Error.Retryable {
		t.Errorf("error = %+v", env.Error)
	}

	// Reads are not affected by the refresh bucket.
	if rec := ts.do(t, http.MethodGet, "/api/v1/cache"); rec.Code != http.StatusOK {
		t.Errorf("cache stats = %d", rec.Code)
	}
}

func TestQueryStats(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	now := time.Now()
	for i := 0; i < 3; i++ {
		ts.wh.history.Record(warehouse.Execution{View: query.ViewOrderDetail, Rows: 10, DurationMS: float64(10 * (i + 1)), Attempts: 1, Timestamp: now})
	}

	var stats []warehouse.ViewStats
	decode(t, ts.do(t, http.MethodGet, "/api/v1/stats/queries"), &stats)
	if len(stats) != 1 || stats[0].Executions != 3 || stats[0].AvgDurationMS != 20 {
		t.Errorf("stats = %+v", stats)
	}

	var recent []warehouse.Execution
	decode(t, ts.do(t, http.MethodGet, "/api/v1/stats/queries?view=order_detail"), &recent)
	if len(recent) != 3 {
		t.Errorf("recent = %d", len(recent))
	}

	if rec := ts.do(t, http.MethodGet, "/api/v1/stats/queries?view=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown view status = %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/v1/stats/queries?view=Nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid view status = %d", rec.Code)
	}
}

func TestEndpointStats(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/v1/views/order_detail")
	ts.do(t, http.MethodGet, "/api/v1/views/order_detail")

	var body struct {
		Endpoints []middleware.EndpointStats  `json:"endpoints"`
		Recent    []middleware.RequestMetrics `json:"recent"`
	}
	decode(t, ts.do(t, http.MethodGet, "/api/v1/stats/endpoints"), &body)

	found := false
	for _, e := range body.Endpoints {
		if e.Endpoint == "GET /api/v1/views/{view}" {
			found = true
			if e.RequestCount != 2 || e.CacheHits != 1 {
				t.Errorf("views endpoint = %+v", e)
			}
		}
	}
	if !found {
		t.Errorf("endpoints = %+v", body.Endpoints)
	}
}

func TestRouter_FallbackRoutes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.do(t, http.MethodGet, "/api/v1/pages")

	rec := ts.do(t, http.MethodGet, "/api/v2/anything")
	if rec.Code != http.StatusNotFound || decode(t, rec, nil).Error.Code != ErrCodeNotFound {
		t.Errorf("not found = %d %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/pages/overview")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("method not allowed = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestView_GeoRevenuePerCustomer_EndToEnd(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	warehousetest.SeedStates(t, wh)
	ts := newTestServerWith(t, wh, wh, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/views/geo_revenue_per_customer")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var section views.Section
	decode(t, rec, &section)

	if section.Table == nil || section.Table.Len() != len(warehousetest.States) {
		t.Fatalf("rows = %+v", section.Table)
	}
	for i, row := range section.Table.Rows {
		v := row["revenue_per_customer"]
		if !strings.HasPrefix(v, "$") {
			t.Errorf("row %d revenue_per_customer = %q", i, v)
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			t.Errorf("row %d leaks a raw number: %q", i, v)
		}
	}

	var stats []warehouse.ViewStats
	decode(t, ts.do(t, http.MethodGet, "/api/v1/stats/queries"), &stats)
	if len(stats) != 1 || stats[0].View != query.ViewGeoRevenuePerCustomer || stats[0].LastRows != len(warehousetest.States) {
		t.Errorf("query stats = %+v", stats)
	}
}

func readCSV(t *testing.T, rec *httptest.ResponseRecorder) [][]string {
	t.Helper()
	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV %q: %v", rec.Body.String(), err)
	}
	return records
}

func TestView_CSVExport(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	rec := ts.do(t, http.MethodGet, "/api/v1/views/customer_city_summary?format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, `attachment; filename="olistlens-customer_city_summary-`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	records := readCSV(t, rec)
	if len(records) != 2 {
		t.Fatalf("records = %v, want header and one row", records)
	}
	wantHeader := []string{format.Label("customer_city"), format.Label("customer_count"), format.Label("city_revenue")}
	if strings.Join(records[0], "|") != strings.Join(wantHeader, "|") {
		t.Errorf("header = %v, want %v", records[0], wantHeader)
	}
	if got := strings.Join(records[1], "|"); got != "SP|7|$250.50" {
		t.Errorf("row = %q", got)
	}
}

func TestView_CSVExportErrors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/views/customer_city_summary?format=xml")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env := decode(t, rec, nil); env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v", env.Error)
	}

	// Pipeline failures keep the JSON error envelope.
	ts.exec.fail[query.ViewOrderDetail] = &warehouse.ConnectivityError{View: query.ViewOrderDetail, Err: errors.New("connection refused")}
	rec = ts.do(t, http.MethodGet, "/api/v1/views/order_detail?format=csv")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env := decode(t, rec, nil); env.Error == nil || env.Error.Code != ErrCodeWarehouseUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestView_CSVExportEmptyKeepsHeader(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	ts := newTestServerWith(t, wh, wh, nil)

	rec := ts.do(t, http.MethodGet, "/api/v1/views/customer_city_summary?format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	records := readCSV(t, rec)
	if len(records) != 1 || len(records[0]) != 3 || records[0][0] != format.Label("customer_city") {
		t.Errorf("records = %v, want the header row only", records)
	}
}
