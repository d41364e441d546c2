// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package views

import (
	"errors"
	"time"

	"github.com/tomtom215/olistlens/internal/chart"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// Status is the render state of a section.
type Status string

// Section states. A section starts loading and ends in exactly one of the
// other three.
const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

// Section error kinds.
const (
	ErrorKindInvalidRequest = "invalid_request"
	ErrorKindConnectivity   = "connectivity"
	ErrorKindQuery          = "query"
	ErrorKindFormat         = "format"
)

// SectionError is the visible, non-fatal failure of one section.
type SectionError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Section is one rendered part of a page.
type Section struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Kind    SectionKind  `json:"kind"`
	View    query.ViewID `json:"view"`
	Status  Status       `json:"status"`
	Message string       `json:"message,omitempty"`

	Table   *models.DisplayTable `json:"table,omitempty"`
	Metrics []models.Metric      `json:"metrics,omitempty"`
	Chart   *chart.Frame         `json:"chart,omitempty"`
	Error   *SectionError        `json:"error,omitempty"`

	Rows       int     `json:"rows"`
	Cached     bool    `json:"cached"`
	DurationMS float64 `json:"duration_ms"`
}

// Page is a fully rendered dashboard page.
type Page struct {
	ID          PageID         `json:"id"`
	Title       string         `json:"title"`
	Filters     []query.Filter `json:"filters"`
	Sections    []*Section     `json:"sections"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Failed returns the sections that ended in an error.
func (p *Page) Failed() []*Section {
	var out []*Section
	for _, s := range p.Sections {
		if s.Status == StatusError {
			out = append(out, s)
		}
	}
	return out
}

// sectionError converts a pipeline error into the message shown in place
// of the section.
func sectionError(err error) *SectionError {
	switch {
	case errors.Is(err, query.ErrInvalidRequest):
		return &SectionError{Kind: ErrorKindInvalidRequest, Message: err.Error()}
	case errors.Is(err, warehouse.ErrConnectivity):
		return &SectionError{
			Kind:      ErrorKindConnectivity,
			Message:   "The data warehouse could not be reached. Try again shortly.",
			Retryable: true,
		}
	case errors.Is(err, warehouse.ErrQuery):
		return &SectionError{
			Kind:    ErrorKindQuery,
			Message: "This section could not be loaded. The failure has been logged.",
		}
	default:
		return &SectionError{Kind: ErrorKindFormat, Message: "This section could not be displayed."}
	}
}
