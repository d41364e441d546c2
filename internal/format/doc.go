// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

/*
Package format turns typed result cells into display strings.

Money and percentages are rounded with shopspring/decimal, half away from
zero, so 1234.505 renders as "$1,234.51" regardless of the binary float
representation. Thousands separators come from go-humanize and fallback
column labels are title-cased with golang.org/x/text/cases.

# Display Tables

Table applies a list of Field descriptors to every row of a result set:

	table, err := format.Table(rs, []format.Field{
		{Column: "state_code", Kind: format.KindText},
		{Column: "revenue_per_customer", Kind: format.KindCurrency},
		{Column: "actual_delivery_days", Key: "delivery_speed",
			Kind: format.KindBucket, Bucketer: format.DeliverySpeedTiers},
	})

Null cells render as "N/A", or "Pending" for delivery columns. Numeric
fields never leak raw numbers: a cell that cannot be converted renders as
the null text.

# Buckets

A Bucketer assigns values to ascending thresholds with inclusive upper
bounds. CustomerValueTiers maps 100 to "$0-100" and 100.01 to "$100-500".
*/
package format
