// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// columnLabels holds the labels that title-casing gets wrong or that the
// dashboard shortens.
var columnLabels = map[string]string{
	"customer_id":              "Customer ID",
	"customer_sk":              "Customer Key",
	"order_id":                 "Order ID",
	"review_id":                "Review ID",
	"customer_state":           "State",
	"state_code":               "State",
	"customer_city":            "City",
	"geographic_region":        "Region",
	"order_month":              "Month",
	"order_purchase_date":      "Purchase Date",
	"order_status":             "Status",
	"customer_segment":         "Segment",
	"churn_risk_level":         "Churn Risk",
	"satisfaction_tier":        "Satisfaction",
	"market_tier":              "Market Tier",
	"product_category_name":    "Category",
	"predicted_annual_clv":     "Predicted Annual CLV",
	"avg_order_value":          "Avg Order Value",
	"average_order_value":      "Avg Order Value",
	"avg_review_score":         "Avg Rating",
	"order_review_score":       "Rating",
	"review_score":             "Rating",
	"revenue_per_customer":     "Revenue per Customer",
	"on_time_rate":             "On-Time Rate",
	"negative_share":           "Negative Reviews",
	"positive_share":           "Positive Reviews",
	"actual_delivery_days":     "Delivery Days",
	"estimated_delivery_days":  "Estimated Delivery Days",
	"market_opportunity_index": "Opportunity Index",
	"total_spent":              "Total Spent",
	"monthly_revenue":          "Revenue",
}

// Label returns the display label for an internal column name. Unknown
// names are split on underscores and title-cased.
func Label(column string) string {
	if label, ok := columnLabels[column]; ok {
		return label
	}
	words := strings.Fields(strings.ReplaceAll(column, "_", " "))
	// Casers are stateful; build one per call.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
