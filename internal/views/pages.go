// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package views

import (
	"sort"
	"strings"

	"github.com/tomtom215/olistlens/internal/format"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
)

// PageID identifies a dashboard page.
type PageID string

// Dashboard pages.
const (
	PageOverview     PageID = "overview"
	PageCustomers    PageID = "customers"
	PageOrders       PageID = "orders"
	PageReviews      PageID = "reviews"
	PageGeography    PageID = "geography"
	PageSegmentation PageID = "segmentation"
)

// SectionKind selects how a section shapes its result.
type SectionKind string

// Section kinds.
const (
	// KindTable renders every row through the section fields.
	KindTable SectionKind = "table"
	// KindKPI renders the first row as metric cards.
	KindKPI SectionKind = "kpi"
	// KindTally buckets one column and counts rows per bucket.
	KindTally SectionKind = "tally"
)

// SectionDef declares one independently rendered part of a page.
type SectionDef struct {
	ID    string
	Title string
	Kind  SectionKind
	View  query.ViewID

	// Fields defaults to FieldsFor(view) for table sections.
	Fields []format.Field
	// ChartColumns, when set, adds a chart frame with these result columns.
	ChartColumns []string
	// Pivot, when set, charts the result one series per distinct value.
	Pivot *PivotSpec

	// Bucketer and BucketColumn drive tally sections.
	Bucketer     *format.Bucketer
	BucketColumn string

	Sort  *query.Sort
	Limit int
	// Reverse flips the fetched rows, so a newest-first window reads
	// oldest to newest.
	Reverse bool

	// Empty is shown instead of a table when the result has no rows.
	Empty string
}

// PivotSpec names the columns of a tidy result that chart.Pivot spreads.
type PivotSpec struct {
	Index  string
	Series string
	Value  string
}

// PageDef declares a page: the filter columns it accepts and its sections
// in display order.
type PageDef struct {
	ID       PageID
	Title    string
	Filters  []string
	Sections []SectionDef
}

// Accepts reports whether the page accepts a filter on column.
func (p *PageDef) Accepts(column string) bool {
	for _, c := range p.Filters {
		if c == column {
			return true
		}
	}
	return false
}

const defaultEmptyMessage = "No data matches the current filters."

var (
	customerKPIFields = []format.Field{
		{Column: "total_customers", Kind: format.KindInteger},
		{Column: "total_orders", Kind: format.KindInteger},
		{Column: "total_revenue", Kind: format.KindCompactCurrency},
		{Column: "avg_order_value", Kind: format.KindCurrency},
		{Column: "avg_review_score", Kind: format.KindRating},
	}
	orderKPIFields = []format.Field{
		{Column: "total_orders", Kind: format.KindInteger},
		{Column: "total_revenue", Kind: format.KindCompactCurrency},
		{Column: "avg_order_value", Kind: format.KindCurrency},
		{Column: "avg_delivery_days", Kind: format.KindDecimal, Places: 1},
		{Column: "on_time_rate", Kind: format.KindFractionPercent},
	}
	reviewKPIFields = []format.Field{
		{Column: "total_reviews", Kind: format.KindInteger},
		{Column: "avg_review_score", Kind: format.KindRating},
		{Column: "positive_share", Kind: format.KindFractionPercent},
		{Column: "avg_days_to_review", Kind: format.KindDecimal, Places: 1},
	}

	latestFirst = func(column string) *query.Sort {
		return &query.Sort{Column: column, Direction: query.Descending}
	}

	customerValueTally = SectionDef{
		ID:           "customer_value_tiers",
		Title:        "Customers by lifetime value",
		Kind:         KindTally,
		View:         query.ViewCustomerValueDistribution,
		Bucketer:     format.CustomerValueTiers,
		BucketColumn: "total_spent",
	}
	purchaseFrequencyTally = SectionDef{
		ID:           "purchase_frequency",
		Title:        "Purchase frequency",
		Kind:         KindTally,
		View:         query.ViewCustomerValueDistribution,
		Bucketer:     format.PurchaseFrequencyTiers,
		BucketColumn: "total_orders",
	}
	segmentSummary = SectionDef{
		ID:           "segments",
		Title:        "Revenue by segment",
		Kind:         KindTable,
		View:         query.ViewCustomerSegmentSummary,
		ChartColumns: []string{"customer_segment", "segment_revenue"},
	}
)

var pageRegistry = map[PageID]*PageDef{
	PageOverview: {
		ID:      PageOverview,
		Title:   "Executive Overview",
		Filters: []string{"customer_state"},
		Sections: []SectionDef{
			{ID: "customer_kpis", Title: "Customers", Kind: KindKPI, View: query.ViewCustomerOverviewKPIs, Fields: customerKPIFields},
			{ID: "order_kpis", Title: "Orders", Kind: KindKPI, View: query.ViewOrderOverviewKPIs, Fields: orderKPIFields},
			{
				ID:           "revenue_trend",
				Title:        "Revenue, last 12 months",
				Kind:         KindTable,
				View:         query.ViewOrderMonthlyTrend,
				ChartColumns: []string{"order_month", "monthly_revenue"},
				Sort:         latestFirst("order_month"),
				Limit:        12,
				Reverse:      true,
			},
			segmentSummary,
		},
	},
	PageCustomers: {
		ID:    PageCustomers,
		Title: "Customer Analytics",
		Filters: []string{
			"customer_state", "customer_segment", "churn_risk_level",
			"satisfaction_tier", "total_spent", "first_order_date",
		},
		Sections: []SectionDef{
			{ID: "customer_kpis", Title: "Customers", Kind: KindKPI, View: query.ViewCustomerOverviewKPIs, Fields: customerKPIFields},
			{ID: "top_spenders", Title: "Top customers", Kind: KindTable, View: query.ViewCustomerTopSpenders, Limit: 20},
			{
				ID:           "states",
				Title:        "Top states by revenue",
				Kind:         KindTable,
				View:         query.ViewCustomerStateSummary,
				ChartColumns: []string{"customer_state", "state_revenue"},
			},
			customerValueTally,
			purchaseFrequencyTally,
		},
	},
	PageOrders: {
		ID:      PageOrders,
		Title:   "Order Analytics",
		Filters: []string{"order_status", "customer_state", "order_purchase_date", "order_month"},
		Sections: []SectionDef{
			{ID: "order_kpis", Title: "Orders", Kind: KindKPI, View: query.ViewOrderOverviewKPIs, Fields: orderKPIFields},
			{
				ID:           "monthly_trend",
				Title:        "Monthly orders and revenue",
				Kind:         KindTable,
				View:         query.ViewOrderMonthlyTrend,
				ChartColumns: []string{"order_month", "total_orders", "monthly_revenue"},
			},
			{
				ID:           "statuses",
				Title:        "Orders by status",
				Kind:         KindTable,
				View:         query.ViewOrderStatusSummary,
				ChartColumns: []string{"order_status", "order_count"},
			},
			{
				ID:           "order_value_tiers",
				Title:        "Orders by value",
				Kind:         KindTally,
				View:         query.ViewOrderValueDistribution,
				Bucketer:     format.OrderValueTiers,
				BucketColumn: "order_value",
			},
			{
				ID:           "delivery_speed",
				Title:        "Delivery speed",
				Kind:         KindTally,
				View:         query.ViewOrderValueDistribution,
				Bucketer:     format.DeliverySpeedTiers,
				BucketColumn: "actual_delivery_days",
			},
			{ID: "recent_orders", Title: "Recent orders", Kind: KindTable, View: query.ViewOrderDetail, Limit: 100},
		},
	},
	PageReviews: {
		ID:      PageReviews,
		Title:   "Review Analytics",
		Filters: []string{"review_score", "customer_state", "product_category_name", "review_creation_date"},
		Sections: []SectionDef{
			{ID: "review_kpis", Title: "Reviews", Kind: KindKPI, View: query.ViewReviewOverviewKPIs, Fields: reviewKPIFields},
			{
				ID:           "score_distribution",
				Title:        "Score distribution",
				Kind:         KindTable,
				View:         query.ViewReviewScoreDistribution,
				ChartColumns: []string{"review_score", "review_count"},
			},
			{
				ID:           "categories",
				Title:        "Most reviewed categories",
				Kind:         KindTable,
				View:         query.ViewReviewCategorySummary,
				ChartColumns: []string{"product_category_name", "avg_review_score"},
			},
			{ID: "states", Title: "Reviews by state", Kind: KindTable, View: query.ViewReviewStateSummary},
			{
				ID:           "review_delay",
				Title:        "Time to review",
				Kind:         KindTally,
				View:         query.ViewReviewDetail,
				Bucketer:     format.ReviewDelayTiers,
				BucketColumn: "days_to_review",
				Limit:        10000,
			},
			{ID: "recent_reviews", Title: "Recent reviews", Kind: KindTable, View: query.ViewReviewDetail, Limit: 100},
		},
	},
	PageGeography: {
		ID:      PageGeography,
		Title:   "Geographic Analytics",
		Filters: []string{"state_code", "geographic_region", "market_tier"},
		Sections: []SectionDef{
			{
				ID:           "states",
				Title:        "State performance",
				Kind:         KindTable,
				View:         query.ViewGeoStatePerformance,
				ChartColumns: []string{"state_code", "total_revenue"},
			},
			{
				ID:           "revenue_per_customer",
				Title:        "Revenue per customer",
				Kind:         KindTable,
				View:         query.ViewGeoRevenuePerCustomer,
				ChartColumns: []string{"state_code", "revenue_per_customer"},
			},
			{
				ID:           "regions",
				Title:        "Regions",
				Kind:         KindTable,
				View:         query.ViewGeoRegionSummary,
				ChartColumns: []string{"geographic_region", "region_revenue"},
			},
			{ID: "market_tiers", Title: "Market tiers", Kind: KindTable, View: query.ViewGeoMarketTierSummary},
		},
	},
	PageSegmentation: {
		ID:      PageSegmentation,
		Title:   "Customer Segmentation",
		Filters: []string{"customer_state", "customer_segment"},
		Sections: []SectionDef{
			segmentSummary,
			{
				ID:           "churn_risk",
				Title:        "Churn risk",
				Kind:         KindTable,
				View:         query.ViewCustomerChurnSummary,
				ChartColumns: []string{"churn_risk_level", "customer_count"},
			},
			{ID: "satisfaction", Title: "Satisfaction tiers", Kind: KindTable, View: query.ViewCustomerSatisfactionSummary},
			{
				ID:    "state_segments",
				Title: "Segment distribution by state",
				Kind:  KindTable,
				View:  query.ViewCustomerStateSegmentSummary,
				Pivot: &PivotSpec{Index: "customer_state", Series: "customer_segment", Value: "customer_count"},
			},
			{ID: "top_cities", Title: "Top cities", Kind: KindTable, View: query.ViewCustomerCitySummary},
			customerValueTally,
			purchaseFrequencyTally,
		},
	},
}

// LookupPage returns the page definition for id.
func LookupPage(id PageID) (*PageDef, bool) {
	p, ok := pageRegistry[id]
	return p, ok
}

// Pages returns every page definition ordered by ID.
func Pages() []*PageDef {
	out := make([]*PageDef, 0, len(pageRegistry))
	for _, p := range pageRegistry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var moneyWords = []string{"revenue", "spent", "value", "price", "sales", "clv"}

// FieldsFor derives display fields for every output column of a view from
// the column names and kinds.
func FieldsFor(v *query.View) []format.Field {
	cols := v.Columns()
	fields := make([]format.Field, len(cols))
	for i, c := range cols {
		fields[i] = fieldFor(c)
	}
	return fields
}

func fieldFor(c models.Column) format.Field {
	f := format.Field{Column: c.Name}
	name := c.Name

	switch {
	case strings.HasSuffix(name, "_id"):
		f.Kind = format.KindIdentifier
	case c.Kind == models.KindDate || c.Kind == models.KindTimestamp:
		f.Kind = format.KindDate
	case c.Kind == models.KindText:
		f.Kind = format.KindText
	case containsAny(name, moneyWords):
		f.Kind = format.KindCurrency
	case strings.HasSuffix(name, "_share") || strings.HasSuffix(name, "_rate"):
		f.Kind = format.KindFractionPercent
	case strings.Contains(name, "review_score"):
		f.Kind = format.KindRating
	case c.Kind == models.KindInteger:
		f.Kind = format.KindInteger
	case strings.Contains(name, "days"):
		f.Kind = format.KindDecimal
		f.Places = 1
	default:
		f.Kind = format.KindDecimal
	}
	return f
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
