// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package views

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/warehouse"
	"github.com/tomtom215/olistlens/internal/warehouse/warehousetest"
)

// fakeExecutor returns one synthetic row per query unless the view is
// configured to fail or to return nothing.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   map[query.ViewID]int
	queries []query.Query
	fail    map[query.ViewID]error
	empty   map[query.ViewID]bool
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		calls: make(map[query.ViewID]int),
		fail:  make(map[query.ViewID]error),
		empty: make(map[query.ViewID]bool),
	}
}

func (f *fakeExecutor) Execute(_ context.Context, q query.Query) (*models.ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[q.View]++
	f.queries = append(f.queries, q)

	if err := f.fail[q.View]; err != nil {
		return nil, err
	}
	rs := models.NewResultSet(q.Columns...)
	if f.empty[q.View] {
		return rs, nil
	}
	row := make([]any, len(q.Columns))
	for i, c := range q.Columns {
		switch c.Kind {
		case models.KindText:
			row[i] = "x"
		case models.KindInteger:
			row[i] = int64(3)
		case models.KindFloat:
			row[i] = 1234.505
		default:
			row[i] = time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)
		}
	}
	_ = rs.AddRow(row...)
	return rs, nil
}

func (f *fakeExecutor) count(view query.ViewID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[view]
}

func (f *fakeExecutor) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newController(t *testing.T, exec Executor) *Controller {
	t.Helper()
	c, err := NewController(warehousetest.Builder(t), exec, cache.New(30*time.Minute),
		config.ViewsConfig{MaxParallelSections: 4, SectionTimeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func sectionByID(t *testing.T, p *Page, id string) *Section {
	t.Helper()
	for _, s := range p.Sections {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("page %s has no section %s", p.ID, id)
	return nil
}

func TestNewController_RequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewController(nil, newFakeExecutor(), cache.New(time.Minute), config.ViewsConfig{}); err == nil {
		t.Error("expected error for a nil builder")
	}
	if _, err := NewController(warehousetest.Builder(t), nil, cache.New(time.Minute), config.ViewsConfig{}); err == nil {
		t.Error("expected error for a nil executor")
	}
}

func TestPage_AllPagesRender(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, newFakeExecutor())
	for _, def := range Pages() {
		page, err := ctrl.Page(context.Background(), def.ID, PageRequest{})
		if err != nil {
			t.Fatalf("%s: %v", def.ID, err)
		}
		if len(page.Sections) != len(def.Sections) {
			t.Fatalf("%s: %d sections, want %d", def.ID, len(page.Sections), len(def.Sections))
		}
		for i, s := range page.Sections {
			if s.ID != def.Sections[i].ID {
				t.Errorf("%s: section %d is %s, want %s", def.ID, i, s.ID, def.Sections[i].ID)
			}
			if s.Status != StatusReady {
				t.Errorf("%s/%s: status %s, error %+v", def.ID, s.ID, s.Status, s.Error)
			}
		}
	}
}

func TestPage_FailureIsolation(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	exec.fail[query.ViewOrderOverviewKPIs] = &warehouse.ConnectivityError{
		View: query.ViewOrderOverviewKPIs, Err: errors.New("connection refused"),
	}
	exec.fail[query.ViewOrderMonthlyTrend] = &warehouse.QueryError{
		View: query.ViewOrderMonthlyTrend, Reason: "Binder Error",
	}
	exec.empty[query.ViewCustomerSegmentSummary] = true

	page, err := newController(t, exec).Page(context.Background(), PageOverview, PageRequest{})
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}

	if s := sectionByID(t, page, "customer_kpis"); s.Status != StatusReady || len(s.Metrics) != 5 {
		t.Errorf("customer_kpis = %s with %d metrics", s.Status, len(s.Metrics))
	}

	conn := sectionByID(t, page, "order_kpis")
	if conn.Status != StatusError || conn.Error == nil || conn.Error.Kind != ErrorKindConnectivity || !conn.Error.Retryable {
		t.Errorf("order_kpis = %s %+v", conn.Status, conn.Error)
	}

	qe := sectionByID(t, page, "revenue_trend")
	if qe.Status != StatusError || qe.Error.Kind != ErrorKindQuery || qe.Error.Retryable {
		t.Errorf("revenue_trend = %s %+v", qe.Status, qe.Error)
	}

	empty := sectionByID(t, page, "segments")
	if empty.Status != StatusEmpty || empty.Message == "" || empty.Error != nil {
		t.Errorf("segments = %s %q %+v", empty.Status, empty.Message, empty.Error)
	}

	if got := len(page.Failed()); got != 2 {
		t.Errorf("failed sections = %d, want 2", got)
	}
}

func TestPage_Rejections(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	ctrl := newController(t, exec)

	if _, err := ctrl.Page(context.Background(), "finance", PageRequest{}); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("unknown page error = %v", err)
	}

	req := PageRequest{Filters: []query.Filter{query.Eq("review_score", 5)}}
	if _, err := ctrl.Page(context.Background(), PageGeography, req); !errors.Is(err, query.ErrInvalidRequest) {
		t.Errorf("unaccepted filter error = %v", err)
	}
	if exec.total() != 0 {
		t.Errorf("rejected requests reached the warehouse %d times", exec.total())
	}
}

func TestPage_InvalidFilterValueFailsSectionsOnly(t *testing.T) {
	t.Parallel()

	ctrl := newController(t, newFakeExecutor())
	req := PageRequest{Filters: []query.Filter{query.Eq("total_spent", "lots")}}

	page, err := ctrl.Page(context.Background(), PageCustomers, req)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	for _, s := range page.Sections {
		if s.Status != StatusError || s.Error.Kind != ErrorKindInvalidRequest || s.Error.Retryable {
			t.Errorf("%s: status %s error %+v", s.ID, s.Status, s.Error)
		}
	}
}

func TestPage_FiltersReachAllowedViewsOnly(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	req := PageRequest{Filters: []query.Filter{query.Eq("order_status", "delivered")}}
	if _, err := newController(t, exec).Page(context.Background(), PageOrders, req); err != nil {
		t.Fatal(err)
	}

	exec.mu.Lock()
	defer exec.mu.Unlock()
	if len(exec.queries) == 0 {
		t.Fatal("no queries executed")
	}
	for _, q := range exec.queries {
		if !strings.Contains(q.SQL, `"order_status" = ?`) {
			t.Errorf("%s: filter missing from %s", q.View, q.SQL)
		}
		if len(q.Args) == 0 || q.Args[0] != "delivered" {
			t.Errorf("%s: args = %v", q.View, q.Args)
		}
	}
}

func TestPage_UsesCacheAndRefresh(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	ctrl := newController(t, exec)
	ctx := context.Background()

	first, err := ctrl.Page(ctx, PageGeography, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range first.Sections {
		if s.Cached {
			t.Errorf("%s cached on first render", s.ID)
		}
	}

	second, err := ctrl.Page(ctx, PageGeography, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range second.Sections {
		if !s.Cached {
			t.Errorf("%s not cached on second render", s.ID)
		}
	}
	if got := exec.count(query.ViewGeoRegionSummary); got != 1 {
		t.Fatalf("geo_region_summary executed %d times, want 1", got)
	}

	removed, err := ctrl.Refresh(query.ViewGeoRegionSummary)
	if err != nil || removed != 1 {
		t.Fatalf("Refresh = %d, %v", removed, err)
	}
	if _, err := ctrl.Page(ctx, PageGeography, PageRequest{}); err != nil {
		t.Fatal(err)
	}
	if got := exec.count(query.ViewGeoRegionSummary); got != 2 {
		t.Errorf("after refresh executed %d times, want 2", got)
	}
	if got := exec.count(query.ViewGeoMarketTierSummary); got != 1 {
		t.Errorf("untouched view executed %d times, want 1", got)
	}

	if _, err := ctrl.Refresh("no_such_view"); !errors.Is(err, query.ErrInvalidRequest) {
		t.Errorf("Refresh(unknown) = %v", err)
	}
	if n := ctrl.RefreshAll(); n != 4 {
		t.Errorf("RefreshAll removed %d, want 4", n)
	}
}

func TestView_Errors(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor()
	exec.fail[query.ViewOrderDetail] = &warehouse.ConnectivityError{View: query.ViewOrderDetail, Err: context.DeadlineExceeded}
	ctrl := newController(t, exec)

	_, err := ctrl.View(context.Background(), query.Request{View: query.ViewOrderDetail})
	if !errors.Is(err, warehouse.ErrConnectivity) {
		t.Errorf("View error = %v, want connectivity", err)
	}

	_, err = ctrl.View(context.Background(), query.Request{
		View:    query.ViewOrderDetail,
		Filters: []query.Filter{query.Eq("review_id", "x")},
	})
	if !errors.Is(err, query.ErrInvalidRequest) {
		t.Errorf("View error = %v, want invalid request", err)
	}

	// Errors are not cached.
	delete(exec.fail, query.ViewOrderDetail)
	s, err := ctrl.View(context.Background(), query.Request{View: query.ViewOrderDetail})
	if err != nil || s.Status != StatusReady || s.Cached {
		t.Errorf("retry after failure = %+v, %v", s, err)
	}
}

// End to end through DuckDB: revenue per customer for 27 states yields 27
// display rows with every currency field rendered as a dollar string.
func TestView_GeoRevenuePerCustomer_EndToEnd(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	warehousetest.SeedStates(t, wh)
	ctrl := newController(t, wh)

	s, err := ctrl.View(context.Background(), query.Request{View: query.ViewGeoRevenuePerCustomer})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if s.Status != StatusReady || s.Table == nil {
		t.Fatalf("section = %+v", s)
	}
	if got := s.Table.Len(); got != len(warehousetest.States) {
		t.Fatalf("rows = %d, want %d", got, len(warehousetest.States))
	}

	for i, row := range s.Table.Rows {
		for _, key := range []string{"revenue_per_customer", "total_revenue"} {
			v := row[key]
			if !strings.HasPrefix(v, "$") {
				t.Errorf("row %d %s = %q, want $ prefix", i, key, v)
			}
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				t.Errorf("row %d %s leaks a raw number: %q", i, key, v)
			}
		}
	}
	// 15000.25 * n / (100 * n) for every state.
	if got := s.Table.Rows[0]["revenue_per_customer"]; got != "$150.00" {
		t.Errorf("revenue_per_customer = %q, want $150.00", got)
	}
}

func TestPage_Geography_EndToEnd(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	warehousetest.SeedStates(t, wh)
	ctrl := newController(t, wh)

	req := PageRequest{Filters: []query.Filter{query.Eq("geographic_region", "Southeast")}}
	page, err := ctrl.Page(context.Background(), PageGeography, req)
	if err != nil {
		t.Fatal(err)
	}

	states := sectionByID(t, page, "states")
	if states.Status != StatusReady || states.Rows != 4 {
		t.Fatalf("states = %s with %d rows (%+v)", states.Status, states.Rows, states.Error)
	}
	if states.Chart == nil || states.Chart.Len() != 4 {
		t.Errorf("chart = %+v", states.Chart)
	}

	regions := sectionByID(t, page, "regions")
	if regions.Rows != 1 || regions.Table.Rows[0]["state_count"] != "4" {
		t.Errorf("regions = %+v", regions.Table)
	}

	none, err := ctrl.Page(context.Background(), PageGeography,
		PageRequest{Filters: []query.Filter{query.Eq("state_code", "XX")}})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range none.Sections {
		if s.Status != StatusEmpty {
			t.Errorf("%s: status %s, want empty", s.ID, s.Status)
		}
	}
}

func TestPage_Orders_DeliveryTally_EndToEnd(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	day := time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, days := range []any{int64(3), int64(10), nil, int64(45)} {
		warehousetest.Insert(t, wh, query.TableOrderAnalytics, map[string]any{
			"order_id":             "order-" + strconv.Itoa(i),
			"customer_id":          "cust-" + strconv.Itoa(i),
			"customer_state":       "SP",
			"order_status":         "delivered",
			"order_purchase_date":  day,
			"order_month":          "2018-03",
			"order_value":          40.0 * float64(i+1),
			"actual_delivery_days": days,
		})
	}

	page, err := newController(t, wh).Page(context.Background(), PageOrders, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}

	delivery := sectionByID(t, page, "delivery_speed")
	if delivery.Status != StatusReady {
		t.Fatalf("delivery_speed = %s %+v", delivery.Status, delivery.Error)
	}
	want := map[string]string{"Fast": "1", "Standard": "1", "Slow": "0", "Very Slow": "1", "Not Delivered": "1"}
	for _, row := range delivery.Table.Rows {
		if want[row["bucket"]] != row["count"] {
			t.Errorf("bucket %s = %s, want %s", row["bucket"], row["count"], want[row["bucket"]])
		}
	}

	kpis := sectionByID(t, page, "order_kpis")
	if kpis.Status != StatusReady || kpis.Metrics[0].Value != "4" {
		t.Errorf("order_kpis = %+v", kpis.Metrics)
	}

	recent := sectionByID(t, page, "recent_orders")
	for _, row := range recent.Table.Rows {
		if !strings.HasSuffix(row["order_id"], "****") {
			t.Errorf("order id not masked: %q", row["order_id"])
		}
	}
}

func TestPage_Overview_RevenueTrendReadsOldestFirst(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	for i := 0; i < 14; i++ {
		month := time.Date(2017, time.Month(1+i), 1, 0, 0, 0, 0, time.UTC)
		warehousetest.Insert(t, wh, query.TableOrderAnalytics, map[string]any{
			"order_id":            "order-" + strconv.Itoa(i),
			"customer_id":         "cust-" + strconv.Itoa(i),
			"customer_state":      "SP",
			"order_status":        "delivered",
			"order_purchase_date": month,
			"order_month":         month.Format("2006-01"),
			"order_value":         100.0 + float64(i),
		})
	}

	page, err := newController(t, wh).Page(context.Background(), PageOverview, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}

	trend := sectionByID(t, page, "revenue_trend")
	if trend.Status != StatusReady || trend.Rows != 12 {
		t.Fatalf("revenue_trend = %s with %d rows (%+v)", trend.Status, trend.Rows, trend.Error)
	}
	if first, last := trend.Table.Rows[0]["order_month"], trend.Table.Rows[11]["order_month"]; first != "2017-03" || last != "2018-02" {
		t.Errorf("table months run %s..%s, want 2017-03..2018-02", first, last)
	}
	months := trend.Chart.Data["order_month"]
	if len(months) != 12 || months[0] != "2017-03" || months[11] != "2018-02" {
		t.Errorf("chart months = %v", months)
	}
}

func TestPage_Segmentation_EndToEnd(t *testing.T) {
	t.Parallel()

	wh := warehousetest.Open(t)
	for i, c := range []struct {
		state, city, segment string
		spent                float64
	}{
		{"SP", "sao paulo", "Loyal", 100},
		{"SP", "sao paulo", "Loyal", 200},
		{"SP", "campinas", "New", 50},
		{"RJ", "rio de janeiro", "Loyal", 300},
		{"RJ", "rio de janeiro", "Champions", 1000},
	} {
		warehousetest.Insert(t, wh, query.TableCustomerAnalytics, map[string]any{
			"customer_id":      "cust-" + strconv.Itoa(i),
			"customer_state":   c.state,
			"customer_city":    c.city,
			"customer_segment": c.segment,
			"total_orders":     int64(1),
			"total_spent":      c.spent,
		})
	}

	page, err := newController(t, wh).Page(context.Background(), PageSegmentation, PageRequest{})
	if err != nil {
		t.Fatal(err)
	}

	segments := sectionByID(t, page, "state_segments")
	if segments.Status != StatusReady || segments.Chart == nil {
		t.Fatalf("state_segments = %s %+v", segments.Status, segments.Error)
	}
	frame := segments.Chart
	if got := strings.Join(frame.Columns, ","); got != "customer_state,Champions,Loyal,New" {
		t.Errorf("pivot columns = %s", got)
	}
	checks := []struct {
		series string
		pos    int
		want   any
	}{
		{"customer_state", 0, "RJ"},
		{"customer_state", 1, "SP"},
		{"Champions", 0, int64(1)},
		{"Champions", 1, nil},
		{"Loyal", 0, int64(1)},
		{"Loyal", 1, int64(2)},
		{"New", 0, nil},
		{"New", 1, int64(1)},
	}
	for _, c := range checks {
		if got := frame.Data[c.series][c.pos]; got != c.want {
			t.Errorf("%s[%d] = %v, want %v", c.series, c.pos, got, c.want)
		}
	}

	cities := sectionByID(t, page, "top_cities")
	if cities.Status != StatusReady || cities.Rows != 3 {
		t.Fatalf("top_cities = %s with %d rows", cities.Status, cities.Rows)
	}
	top := cities.Table.Rows[0]
	if top["customer_city"] != "rio de janeiro" || top["customer_count"] != "2" || top["city_revenue"] != "$1,300.00" {
		t.Errorf("top city = %v", top)
	}
}
