// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"fmt"
	"sort"

	"github.com/tomtom215/olistlens/internal/models"
)

// Table names of the pre-aggregated warehouse tables. These names and their
// columns are contract surface with the upstream transformation jobs.
const (
	TableCustomerAnalytics   = "customer_analytics_obt"
	TableOrderAnalytics      = "order_analytics_obt"
	TableReviewAnalytics     = "review_analytics_obt"
	TableGeographicAnalytics = "geographic_analytics_obt"
)

// Table is a pre-aggregated warehouse table with a fixed column schema.
type Table struct {
	Name    string
	Columns []models.Column
}

// Column returns the named column.
func (t *Table) Column(name string) (models.Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return models.Column{}, false
}

func text(name string) models.Column    { return models.Column{Name: name, Kind: models.KindText} }
func integer(name string) models.Column { return models.Column{Name: name, Kind: models.KindInteger} }
func float(name string) models.Column   { return models.Column{Name: name, Kind: models.KindFloat} }
func date(name string) models.Column    { return models.Column{Name: name, Kind: models.KindDate} }

var tables = map[string]*Table{
	TableCustomerAnalytics: {
		Name: TableCustomerAnalytics,
		Columns: []models.Column{
			integer("customer_sk"),
			text("customer_id"),
			text("customer_state"),
			text("customer_city"),
			integer("total_orders"),
			float("total_spent"),
			float("avg_order_value"),
			float("avg_review_score"),
			text("customer_segment"),
			text("churn_risk_level"),
			text("satisfaction_tier"),
			float("predicted_annual_clv"),
			integer("days_as_customer"),
			integer("categories_purchased"),
			date("first_order_date"),
			date("last_order_date"),
		},
	},
	TableOrderAnalytics: {
		Name: TableOrderAnalytics,
		Columns: []models.Column{
			text("order_id"),
			text("customer_id"),
			text("customer_state"),
			text("order_status"),
			date("order_purchase_date"),
			text("order_month"), // YYYY-MM
			float("order_value"),
			float("freight_value"),
			integer("items_count"),
			integer("actual_delivery_days"),
			integer("estimated_delivery_days"),
			float("order_review_score"),
			integer("customer_order_count"),
		},
	},
	TableReviewAnalytics: {
		Name: TableReviewAnalytics,
		Columns: []models.Column{
			text("review_id"),
			text("order_id"),
			integer("review_score"),
			date("review_creation_date"),
			text("customer_state"),
			text("product_category_name"),
			float("price"),
			integer("days_to_review"),
		},
	},
	TableGeographicAnalytics: {
		Name: TableGeographicAnalytics,
		Columns: []models.Column{
			text("state_code"),
			text("geographic_region"),
			integer("total_customers"),
			integer("total_orders"),
			float("total_revenue"),
			float("average_order_value"),
			float("avg_review_score"),
			text("market_tier"),
			float("customers_per_city"),
			float("revenue_per_customer"),
			float("market_opportunity_index"),
		},
	},
}

// LookupTable returns the catalog entry for a table name.
func LookupTable(name string) (*Table, bool) {
	t, ok := tables[name]
	return t, ok
}

// Tables returns every catalog table sorted by name.
func Tables() []*Table {
	out := make([]*Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// mustColumn returns a catalog column or panics; used only while the static
// view registry is assembled at package init.
func mustColumn(table, name string) models.Column {
	t, ok := tables[table]
	if !ok {
		panic(fmt.Sprintf("query: unknown table %q", table))
	}
	c, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("query: unknown column %s.%s", table, name))
	}
	return c
}
