// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/olistlens/internal/cache"
	"github.com/tomtom215/olistlens/internal/chart"
	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/format"
	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/metrics"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
	"github.com/tomtom215/olistlens/internal/warehouse"
)

// ErrPageNotFound is returned for an unknown page ID.
var ErrPageNotFound = errors.New("page not found")

// Executor runs a built query. *warehouse.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, q query.Query) (*models.ResultSet, error)
}

// PageRequest carries the page-level filters chosen in the UI.
type PageRequest struct {
	Filters []query.Filter
}

// Controller renders pages and single views through the query builder, the
// result cache and the warehouse.
type Controller struct {
	builder        *query.Builder
	exec           Executor
	cache          *cache.Cache
	maxParallel    int
	sectionTimeout time.Duration
}

// NewController creates a controller. The cache is owned by the caller and
// may be shared with other controllers.
func NewController(builder *query.Builder, exec Executor, c *cache.Cache, cfg config.ViewsConfig) (*Controller, error) {
	if builder == nil || exec == nil || c == nil {
		return nil, errors.New("views controller requires a builder, an executor and a cache")
	}
	maxParallel := cfg.MaxParallelSections
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &Controller{
		builder:        builder,
		exec:           exec,
		cache:          c,
		maxParallel:    maxParallel,
		sectionTimeout: cfg.SectionTimeout,
	}, nil
}

// Page renders every section of a page. Section failures are reported on
// the section; the returned error is non-nil only for an unknown page or a
// filter the page does not accept.
func (c *Controller) Page(ctx context.Context, id PageID, req PageRequest) (*Page, error) {
	def, ok := LookupPage(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	for _, f := range req.Filters {
		if !def.Accepts(f.Column) {
			return nil, &query.InvalidRequestError{
				Field:  f.Column,
				Reason: fmt.Sprintf("page %s does not accept a filter on %q", id, f.Column),
			}
		}
	}

	page := &Page{
		ID:          def.ID,
		Title:       def.Title,
		Filters:     req.Filters,
		Sections:    make([]*Section, len(def.Sections)),
		GeneratedAt: time.Now().UTC(),
	}

	// Sections never return errors to the group, so one failure does not
	// cancel its siblings.
	var g errgroup.Group
	g.SetLimit(c.maxParallel)
	for i, sd := range def.Sections {
		g.Go(func() error {
			page.Sections[i] = c.renderSection(ctx, def.ID, sd, req.Filters)
			return nil
		})
	}
	_ = g.Wait()

	if failed := page.Failed(); len(failed) > 0 {
		logging.Ctx(ctx).Warn().
			Str("page", string(id)).
			Int("failed_sections", len(failed)).
			Int("sections", len(page.Sections)).
			Msg("Page rendered with failed sections")
	}
	return page, nil
}

// View renders a single view as a table. Unlike Page, failures are returned
// to the caller.
func (c *Controller) View(ctx context.Context, req query.Request) (*Section, error) {
	start := time.Now()
	q, err := c.builder.Build(req)
	if err != nil {
		return nil, err
	}
	rs, cached, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	v, _ := query.LookupView(req.View)
	sd := SectionDef{ID: string(req.View), Title: v.Title, Kind: KindTable, View: req.View}
	s := newSection(sd)
	s.Cached = cached
	if err := c.shape(s, sd, v, rs); err != nil {
		return nil, err
	}
	s.DurationMS = float64(time.Since(start).Microseconds()) / 1000
	return s, nil
}

// Refresh drops the cached results of one view so the next request reads
// the warehouse again. It returns the number of entries removed.
func (c *Controller) Refresh(view query.ViewID) (int, error) {
	if _, ok := query.LookupView(view); !ok {
		return 0, &query.InvalidRequestError{View: view, Field: "view", Reason: "unknown view"}
	}
	n := c.cache.InvalidatePrefix(query.KeyPrefix(view))
	metrics.RecordCacheInvalidation("refresh", n)
	metrics.CacheSize.Set(float64(c.cache.Len()))
	return n, nil
}

// RefreshAll empties the result cache.
func (c *Controller) RefreshAll() int {
	n := c.cache.Len()
	c.cache.Clear()
	metrics.RecordCacheInvalidation("refresh_all", n)
	metrics.CacheSize.Set(0)
	return n
}

func (c *Controller) renderSection(ctx context.Context, page PageID, sd SectionDef, filters []query.Filter) *Section {
	start := time.Now()
	s := newSection(sd)
	defer func() {
		s.DurationMS = float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordSection(string(page), string(s.Status))
	}()

	if c.sectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.sectionTimeout)
		defer cancel()
	}

	v, ok := query.LookupView(sd.View)
	if !ok {
		c.fail(ctx, s, &query.InvalidRequestError{View: sd.View, Reason: "unknown view"})
		return s
	}

	req := query.Request{View: sd.View, Sort: sd.Sort, Limit: sd.Limit}
	for _, f := range filters {
		// Page filters apply to the sections whose view can take them.
		if v.Allows(f.Column) {
			req.Filters = append(req.Filters, f)
		}
	}

	q, err := c.builder.Build(req)
	if err != nil {
		c.fail(ctx, s, err)
		return s
	}
	rs, cached, err := c.fetch(ctx, q)
	if err != nil {
		c.fail(ctx, s, err)
		return s
	}
	s.Cached = cached
	if err := c.shape(s, sd, v, rs); err != nil {
		c.fail(ctx, s, err)
	}
	return s
}

// fetch reads q through the cache.
func (c *Controller) fetch(ctx context.Context, q query.Query) (*models.ResultSet, bool, error) {
	rs, cached, err := cache.Fetch(c.cache, q.Key(), c.cache.TTL(), func() (*models.ResultSet, error) {
		return c.exec.Execute(ctx, q)
	})
	metrics.RecordCacheLookup(string(q.View), cached)
	if err == nil && !cached {
		metrics.CacheSize.Set(float64(c.cache.Len()))
	}
	return rs, cached, err
}

// shape fills the section payload from a result set.
func (c *Controller) shape(s *Section, sd SectionDef, v *query.View, rs *models.ResultSet) error {
	s.Rows = rs.Len()
	if rs.IsEmpty() {
		s.Status = StatusEmpty
		s.Message = sd.Empty
		if s.Message == "" {
			s.Message = defaultEmptyMessage
		}
		return nil
	}

	if sd.Reverse {
		rs = rs.Reversed()
	}

	switch sd.Kind {
	case KindKPI:
		fields := sd.Fields
		if fields == nil {
			fields = FieldsFor(v)
		}
		s.Metrics = format.Metrics(rs, fields)

	case KindTally:
		if sd.Bucketer == nil {
			return fmt.Errorf("section %s: tally without a bucketer", sd.ID)
		}
		values := rs.Column(sd.BucketColumn)
		if values == nil {
			return fmt.Errorf("section %s: result has no column %s", sd.ID, sd.BucketColumn)
		}
		counts := sd.Bucketer.Tally(values)
		s.Chart = chart.FromTally("bucket", "count", counts)
		table := models.DisplayTable{
			Columns: []models.DisplayColumn{{Key: "bucket", Label: format.Label(sd.BucketColumn)}, {Key: "count", Label: "Count"}},
			Rows:    make([]models.DisplayRow, len(counts)),
		}
		for i, n := range counts {
			table.Rows[i] = models.DisplayRow{"bucket": n.Label, "count": format.Integer(n.N)}
		}
		s.Table = &table

	default:
		fields := sd.Fields
		if fields == nil {
			fields = FieldsFor(v)
		}
		table, err := format.Table(rs, fields)
		if err != nil {
			return fmt.Errorf("section %s: %w", sd.ID, err)
		}
		s.Table = &table
		switch {
		case sd.Pivot != nil:
			frame, err := chart.Pivot(rs, sd.Pivot.Index, sd.Pivot.Series, sd.Pivot.Value)
			if err != nil {
				return fmt.Errorf("section %s: %w", sd.ID, err)
			}
			s.Chart = frame
		case len(sd.ChartColumns) > 0:
			frame, err := chart.FromResultSet(rs, sd.ChartColumns...)
			if err != nil {
				return fmt.Errorf("section %s: %w", sd.ID, err)
			}
			s.Chart = frame
		}
	}

	s.Status = StatusReady
	return nil
}

func (c *Controller) fail(ctx context.Context, s *Section, err error) {
	s.Status = StatusError
	s.Error = sectionError(err)

	event := logging.Ctx(ctx).Warn()
	if errors.Is(err, warehouse.ErrQuery) {
		event = logging.Ctx(ctx).Error()
	}
	event.Err(err).
		Str("section", s.ID).
		Str("view", string(s.View)).
		Str("error_kind", s.Error.Kind).
		Msg("Section failed")
}

func newSection(sd SectionDef) *Section {
	return &Section{
		ID:     sd.ID,
		Title:  sd.Title,
		Kind:   sd.Kind,
		View:   sd.View,
		Status: StatusLoading,
	}
}
