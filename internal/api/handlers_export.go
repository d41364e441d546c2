// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package api

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/tomtom215/olistlens/internal/format"
	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/views"
)

const formatCSV = "csv"

// writeSectionCSV streams the display table of a single-view section as a
// CSV attachment. The header row carries the column labels and every cell
// is the same formatted string the dashboard shows. An empty result still
// gets its header row.
func writeSectionCSV(w http.ResponseWriter, r *http.Request, s *views.Section) {
	table := s.Table
	if table == nil {
		table = headerOnly(s.View)
	}

	filename := "olistlens-" + string(s.View) + "-" + time.Now().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	header := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("view", string(s.View)).Msg("Failed to write CSV header")
		return
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, c := range table.Columns {
			record[i] = row[c.Key]
		}
		if err := cw.Write(record); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("view", string(s.View)).Msg("Failed to write CSV row")
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("view", string(s.View)).Msg("Failed to flush CSV")
	}
}

func headerOnly(id query.ViewID) *models.DisplayTable {
	table := &models.DisplayTable{Rows: []models.DisplayRow{}}
	v, ok := query.LookupView(id)
	if !ok {
		return table
	}
	for _, f := range views.FieldsFor(v) {
		table.Columns = append(table.Columns, models.DisplayColumn{Key: f.Column, Label: format.Label(f.Column)})
	}
	return table
}
