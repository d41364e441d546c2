// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"sort"

	"github.com/tomtom215/olistlens/internal/models"
)

// ViewID identifies a logical analytics view.
type ViewID string

// Customer views.
const (
	ViewCustomerTopSpenders         ViewID = "customer_top_spenders"
	ViewCustomerSegmentSummary      ViewID = "customer_segment_summary"
	ViewCustomerStateSummary        ViewID = "customer_state_summary"
	ViewCustomerValueDistribution   ViewID = "customer_value_distribution"
	ViewCustomerOverviewKPIs        ViewID = "customer_overview_kpis"
	ViewCustomerChurnSummary        ViewID = "customer_churn_summary"
	ViewCustomerSatisfactionSummary ViewID = "customer_satisfaction_summary"
	ViewCustomerStateSegmentSummary ViewID = "customer_state_segment_summary"
	ViewCustomerCitySummary         ViewID = "customer_city_summary"
)

// Order views.
const (
	ViewOrderMonthlyTrend      ViewID = "order_monthly_trend"
	ViewOrderStatusSummary     ViewID = "order_status_summary"
	ViewOrderDetail            ViewID = "order_detail"
	ViewOrderValueDistribution ViewID = "order_value_distribution"
	ViewOrderOverviewKPIs      ViewID = "order_overview_kpis"
)

// Review views.
const (
	ViewReviewScoreDistribution ViewID = "review_score_distribution"
	ViewReviewCategorySummary   ViewID = "review_category_summary"
	ViewReviewStateSummary      ViewID = "review_state_summary"
	ViewReviewDetail            ViewID = "review_detail"
	ViewReviewOverviewKPIs      ViewID = "review_overview_kpis"
)

// Geographic views.
const (
	ViewGeoStatePerformance   ViewID = "geo_state_performance"
	ViewGeoRevenuePerCustomer ViewID = "geo_revenue_per_customer"
	ViewGeoRegionSummary      ViewID = "geo_region_summary"
	ViewGeoMarketTierSummary  ViewID = "geo_market_tier_summary"
)

// Projection is one output column of a view. An empty Expr selects the base
// column named by Column.Name.
type Projection struct {
	Expr   string
	Column models.Column
}

// View binds a logical analytics request to exactly one pre-aggregated
// table. Joins are never issued; all relationships are resolved upstream.
type View struct {
	ID          ViewID
	Title       string
	Table       string
	Select      []Projection
	Where       []string // fixed predicates, no bound arguments
	GroupBy     []string
	Filterable  []string // allow-list of base table columns
	DefaultSort *Sort

	// DefaultLimit and MaxLimit override the builder limits when non-zero.
	DefaultLimit int
	MaxLimit     int
}

// Columns returns the declared result schema.
func (v *View) Columns() []models.Column {
	cols := make([]models.Column, len(v.Select))
	for i, p := range v.Select {
		cols[i] = p.Column
	}
	return cols
}

// ColumnNames returns the declared result column names.
func (v *View) ColumnNames() []string {
	names := make([]string, len(v.Select))
	for i, p := range v.Select {
		names[i] = p.Column.Name
	}
	return names
}

// Allows reports whether column is in the view's filter allow-list.
func (v *View) Allows(column string) bool {
	for _, c := range v.Filterable {
		if c == column {
			return true
		}
	}
	return false
}

// HasOutput reports whether column is a declared output column.
func (v *View) HasOutput(column string) bool {
	for _, p := range v.Select {
		if p.Column.Name == column {
			return true
		}
	}
	return false
}

// IsAggregate reports whether the view reduces rows (GROUP BY or a single
// summary row).
func (v *View) IsAggregate() bool {
	if len(v.GroupBy) > 0 {
		return true
	}
	for _, p := range v.Select {
		if p.Expr != "" {
			return true
		}
	}
	return false
}

func pick(table string, names ...string) []Projection {
	out := make([]Projection, len(names))
	for i, n := range names {
		out[i] = Projection{Column: mustColumn(table, n)}
	}
	return out
}

func agg(expr, name string, kind models.ColumnKind) Projection {
	return Projection{Expr: expr, Column: models.Column{Name: name, Kind: kind}}
}

func desc(column string) *Sort { return &Sort{Column: column, Direction: Descending} }
func asc(column string) *Sort  { return &Sort{Column: column, Direction: Ascending} }

var (
	customerFilters = []string{
		"customer_state", "customer_city", "customer_segment", "churn_risk_level",
		"satisfaction_tier", "total_orders", "total_spent", "avg_review_score",
		"first_order_date", "last_order_date",
	}
	orderFilters = []string{
		"order_status", "customer_state", "order_purchase_date", "order_month",
		"order_value", "items_count", "actual_delivery_days", "order_review_score",
	}
	reviewFilters = []string{
		"review_score", "customer_state", "product_category_name",
		"review_creation_date", "price", "days_to_review",
	}
	geoFilters = []string{
		"state_code", "geographic_region", "market_tier", "total_customers",
		"total_revenue", "revenue_per_customer", "avg_review_score",
	}
)

// distributionLimit bounds the raw-row views that feed client-side bucketing.
const distributionLimit = 200000

func customerViews() []View {
	t := TableCustomerAnalytics
	return []View{
		{
			ID:    ViewCustomerTopSpenders,
			Title: "Top customers by total spend",
			Table: t,
			Select: pick(t, "customer_id", "customer_state", "customer_city", "total_orders",
				"total_spent", "avg_order_value", "avg_review_score", "customer_segment",
				"churn_risk_level", "predicted_annual_clv"),
			Where:        []string{"total_orders > 0"},
			Filterable:   customerFilters,
			DefaultSort:  desc("total_spent"),
			DefaultLimit: 100,
		},
		{
			ID:    ViewCustomerSegmentSummary,
			Title: "Revenue by customer segment",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "customer_segment")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
				agg(`SUM("total_spent")`, "segment_revenue", models.KindFloat),
				agg(`AVG("total_spent")`, "avg_customer_value", models.KindFloat),
				agg(`AVG("total_orders")`, "avg_orders", models.KindFloat),
				agg(`AVG("avg_review_score")`, "avg_review_score", models.KindFloat),
			},
			Where:       []string{"total_orders > 0", "customer_segment IS NOT NULL"},
			GroupBy:     []string{"customer_segment"},
			Filterable:  customerFilters,
			DefaultSort: desc("segment_revenue"),
		},
		{
			ID:    ViewCustomerStateSummary,
			Title: "Top states by customer revenue",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "customer_state")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
				agg(`SUM("total_spent")`, "state_revenue", models.KindFloat),
				agg(`AVG("total_spent")`, "avg_customer_value", models.KindFloat),
			},
			Where:        []string{"total_orders > 0"},
			GroupBy:      []string{"customer_state"},
			Filterable:   customerFilters,
			DefaultSort:  desc("state_revenue"),
			DefaultLimit: 10,
		},
		{
			ID:           ViewCustomerValueDistribution,
			Title:        "Customer lifetime value distribution",
			Table:        t,
			Select:       pick(t, "customer_id", "total_orders", "total_spent"),
			Where:        []string{"total_orders > 0"},
			Filterable:   customerFilters,
			DefaultSort:  desc("total_spent"),
			DefaultLimit: distributionLimit,
			MaxLimit:     distributionLimit,
		},
		{
			ID:    ViewCustomerOverviewKPIs,
			Title: "Customer headline metrics",
			Table: t,
			Select: []Projection{
				agg("COUNT(*)", "total_customers", models.KindInteger),
				agg(`CAST(SUM("total_orders") AS BIGINT)`, "total_orders", models.KindInteger),
				agg(`SUM("total_spent")`, "total_revenue", models.KindFloat),
				agg(`SUM("total_spent") / NULLIF(SUM("total_orders"), 0)`, "avg_order_value", models.KindFloat),
				agg(`AVG("avg_review_score")`, "avg_review_score", models.KindFloat),
			},
			Where:        []string{"total_orders > 0"},
			Filterable:   customerFilters,
			DefaultLimit: 1,
		},
		{
			ID:    ViewCustomerChurnSummary,
			Title: "Customers by churn risk",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "churn_risk_level")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
				agg(`SUM("total_spent")`, "revenue_at_risk", models.KindFloat),
				agg(`AVG("days_as_customer")`, "avg_days_as_customer", models.KindFloat),
			},
			Where:       []string{"total_orders > 0", "churn_risk_level IS NOT NULL"},
			GroupBy:     []string{"churn_risk_level"},
			Filterable:  customerFilters,
			DefaultSort: desc("customer_count"),
		},
		{
			ID:    ViewCustomerSatisfactionSummary,
			Title: "Customers by satisfaction tier",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "satisfaction_tier")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
				agg(`AVG("avg_review_score")`, "avg_review_score", models.KindFloat),
				agg(`AVG("total_spent")`, "avg_customer_value", models.KindFloat),
			},
			Where:       []string{"total_orders > 0", "satisfaction_tier IS NOT NULL"},
			GroupBy:     []string{"satisfaction_tier"},
			Filterable:  customerFilters,
			DefaultSort: desc("customer_count"),
		},
		{
			ID:    ViewCustomerStateSegmentSummary,
			Title: "Customer segments by state",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "customer_state")},
				{Column: mustColumn(t, "customer_segment")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
			},
			Where:       []string{"total_orders > 0", "customer_segment IS NOT NULL"},
			GroupBy:     []string{"customer_state", "customer_segment"},
			Filterable:  customerFilters,
			DefaultSort: asc("customer_state"),
		},
		{
			ID:    ViewCustomerCitySummary,
			Title: "Top cities by customer revenue",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "customer_city")},
				agg("COUNT(*)", "customer_count", models.KindInteger),
				agg(`SUM("total_spent")`, "city_revenue", models.KindFloat),
			},
			Where:        []string{"total_orders > 0", "customer_city IS NOT NULL"},
			GroupBy:      []string{"customer_city"},
			Filterable:   customerFilters,
			DefaultSort:  desc("city_revenue"),
			DefaultLimit: 10,
		},
	}
}

func orderViews() []View {
	t := TableOrderAnalytics
	return []View{
		{
			ID:    ViewOrderMonthlyTrend,
			Title: "Monthly order trend",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "order_month")},
				agg("COUNT(*)", "total_orders", models.KindInteger),
				agg(`SUM("order_value")`, "monthly_revenue", models.KindFloat),
				agg(`AVG("order_value")`, "avg_order_value", models.KindFloat),
				agg(`COUNT(DISTINCT "customer_id")`, "unique_customers", models.KindInteger),
			},
			Where:        []string{"order_month IS NOT NULL"},
			GroupBy:      []string{"order_month"},
			Filterable:   orderFilters,
			DefaultSort:  asc("order_month"),
			DefaultLimit: 36,
		},
		{
			ID:    ViewOrderStatusSummary,
			Title: "Orders by status",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "order_status")},
				agg("COUNT(*)", "order_count", models.KindInteger),
				agg(`SUM("order_value")`, "total_value", models.KindFloat),
				agg(`AVG("actual_delivery_days")`, "avg_delivery_days", models.KindFloat),
			},
			GroupBy:     []string{"order_status"},
			Filterable:  orderFilters,
			DefaultSort: desc("order_count"),
		},
		{
			ID:    ViewOrderDetail,
			Title: "Recent orders",
			Table: t,
			Select: pick(t, "order_id", "customer_id", "customer_state", "order_status",
				"order_purchase_date", "order_value", "items_count", "actual_delivery_days",
				"estimated_delivery_days", "order_review_score", "customer_order_count"),
			Filterable:  orderFilters,
			DefaultSort: desc("order_purchase_date"),
		},
		{
			ID:           ViewOrderValueDistribution,
			Title:        "Order value and delivery speed distribution",
			Table:        t,
			Select:       pick(t, "order_id", "order_value", "actual_delivery_days"),
			Filterable:   orderFilters,
			DefaultSort:  desc("order_value"),
			DefaultLimit: distributionLimit,
			MaxLimit:     distributionLimit,
		},
		{
			ID:    ViewOrderOverviewKPIs,
			Title: "Order headline metrics",
			Table: t,
			Select: []Projection{
				agg("COUNT(*)", "total_orders", models.KindInteger),
				agg(`SUM("order_value")`, "total_revenue", models.KindFloat),
				agg(`AVG("order_value")`, "avg_order_value", models.KindFloat),
				agg(`AVG("actual_delivery_days")`, "avg_delivery_days", models.KindFloat),
				agg(`AVG(CASE WHEN "actual_delivery_days" IS NULL THEN NULL `+
					`WHEN "actual_delivery_days" <= "estimated_delivery_days" THEN 1 ELSE 0 END)`,
					"on_time_rate", models.KindFloat),
			},
			Filterable:   orderFilters,
			DefaultLimit: 1,
		},
	}
}

func reviewViews() []View {
	t := TableReviewAnalytics
	return []View{
		{
			ID:    ViewReviewScoreDistribution,
			Title: "Review score distribution",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "review_score")},
				agg("COUNT(*)", "review_count", models.KindInteger),
				agg(`AVG("price")`, "avg_price", models.KindFloat),
			},
			Where:       []string{"review_score IS NOT NULL"},
			GroupBy:     []string{"review_score"},
			Filterable:  reviewFilters,
			DefaultSort: asc("review_score"),
		},
		{
			ID:    ViewReviewCategorySummary,
			Title: "Most reviewed product categories",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "product_category_name")},
				agg("COUNT(*)", "review_count", models.KindInteger),
				agg(`AVG("review_score")`, "avg_review_score", models.KindFloat),
				agg(`SUM("price")`, "total_sales", models.KindFloat),
				agg(`AVG(CASE WHEN "review_score" <= 2 THEN 1 ELSE 0 END)`, "negative_share", models.KindFloat),
			},
			Where:        []string{"product_category_name IS NOT NULL"},
			GroupBy:      []string{"product_category_name"},
			Filterable:   reviewFilters,
			DefaultSort:  desc("review_count"),
			DefaultLimit: 15,
		},
		{
			ID:    ViewReviewStateSummary,
			Title: "Review sentiment by state",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "customer_state")},
				agg("COUNT(*)", "review_count", models.KindInteger),
				agg(`AVG("review_score")`, "avg_review_score", models.KindFloat),
				agg(`AVG("days_to_review")`, "avg_days_to_review", models.KindFloat),
			},
			GroupBy:     []string{"customer_state"},
			Filterable:  reviewFilters,
			DefaultSort: desc("review_count"),
		},
		{
			ID:    ViewReviewDetail,
			Title: "Review detail",
			Table: t,
			Select: pick(t, "review_id", "order_id", "review_score", "review_creation_date",
				"customer_state", "product_category_name", "price", "days_to_review"),
			Filterable:  reviewFilters,
			DefaultSort: desc("review_creation_date"),
			MaxLimit:    10000,
		},
		{
			ID:    ViewReviewOverviewKPIs,
			Title: "Review headline metrics",
			Table: t,
			Select: []Projection{
				agg("COUNT(*)", "total_reviews", models.KindInteger),
				agg(`AVG("review_score")`, "avg_review_score", models.KindFloat),
				agg(`AVG(CASE WHEN "review_score" >= 4 THEN 1 ELSE 0 END)`, "positive_share", models.KindFloat),
				agg(`AVG("days_to_review")`, "avg_days_to_review", models.KindFloat),
			},
			Filterable:   reviewFilters,
			DefaultLimit: 1,
		},
	}
}

func geographicViews() []View {
	t := TableGeographicAnalytics
	return []View{
		{
			ID:    ViewGeoStatePerformance,
			Title: "State performance",
			Table: t,
			Select: pick(t, "state_code", "geographic_region", "total_customers", "total_orders",
				"total_revenue", "average_order_value", "avg_review_score", "market_tier",
				"customers_per_city", "market_opportunity_index"),
			Filterable:  geoFilters,
			DefaultSort: desc("total_revenue"),
		},
		{
			ID:          ViewGeoRevenuePerCustomer,
			Title:       "Revenue per customer by state",
			Table:       t,
			Select:      pick(t, "state_code", "geographic_region", "total_customers", "total_revenue", "revenue_per_customer"),
			Filterable:  geoFilters,
			DefaultSort: desc("revenue_per_customer"),
		},
		{
			ID:    ViewGeoRegionSummary,
			Title: "Revenue by region",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "geographic_region")},
				agg("COUNT(*)", "state_count", models.KindInteger),
				agg(`CAST(SUM("total_customers") AS BIGINT)`, "region_customers", models.KindInteger),
				agg(`SUM("total_revenue")`, "region_revenue", models.KindFloat),
				agg(`AVG("avg_review_score")`, "avg_review_score", models.KindFloat),
			},
			GroupBy:     []string{"geographic_region"},
			Filterable:  geoFilters,
			DefaultSort: desc("region_revenue"),
		},
		{
			ID:    ViewGeoMarketTierSummary,
			Title: "Revenue by market tier",
			Table: t,
			Select: []Projection{
				{Column: mustColumn(t, "market_tier")},
				agg("COUNT(*)", "state_count", models.KindInteger),
				agg(`CAST(SUM("total_customers") AS BIGINT)`, "tier_customers", models.KindInteger),
				agg(`SUM("total_revenue")`, "tier_revenue", models.KindFloat),
				agg(`AVG("revenue_per_customer")`, "avg_revenue_per_customer", models.KindFloat),
			},
			Where:       []string{"market_tier IS NOT NULL"},
			GroupBy:     []string{"market_tier"},
			Filterable:  geoFilters,
			DefaultSort: desc("tier_revenue"),
		},
	}
}

var registry = func() map[ViewID]*View {
	m := make(map[ViewID]*View)
	for _, group := range [][]View{customerViews(), orderViews(), reviewViews(), geographicViews()} {
		for i := range group {
			v := group[i]
			m[v.ID] = &v
		}
	}
	return m
}()

// LookupView returns the definition of a view.
func LookupView(id ViewID) (*View, bool) {
	v, ok := registry[id]
	return v, ok
}

// Views returns every registered view sorted by ID.
func Views() []*View {
	out := make([]*View, 0, len(registry))
	for _, v := range registry {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
