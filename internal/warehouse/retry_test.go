// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
)

// newTestClient returns a client whose attempts are served by fake.
func newTestClient(t *testing.T, cfg config.WarehouseConfig, fake func(attempt int) (*models.ResultSet, error)) (*Client, *int) {
	t.Helper()

	conn, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	c := newClient(conn, cfg)
	calls := 0
	c.exec = func(ctx context.Context, q query.Query) (*models.ResultSet, error) {
		calls++
		return fake(calls)
	}
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c, &calls
}

func testQuery() query.Query {
	return query.Query{
		View:    query.ViewGeoRegionSummary,
		Table:   query.TableGeographicAnalytics,
		SQL:     "SELECT 1",
		Columns: []models.Column{{Name: "x", Kind: models.KindInteger}},
	}
}

func okResult() *models.ResultSet {
	rs := models.NewResultSet(models.Column{Name: "x", Kind: models.KindInteger})
	_ = rs.AddRow(int64(1))
	return rs
}

func TestExecute_RetriesConnectivityErrors(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 3}}
	c, calls := newTestClient(t, cfg, func(attempt int) (*models.ResultSet, error) {
		if attempt < 3 {
			return nil, &ConnectivityError{Err: errors.New("connection reset by peer")}
		}
		return okResult(), nil
	})

	rs, err := c.Execute(context.Background(), testQuery())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rs.Len() != 1 || *calls != 3 {
		t.Errorf("rows=%d calls=%d, want 1 and 3", rs.Len(), *calls)
	}
	recent := c.History().Recent(query.ViewGeoRegionSummary)
	if len(recent) != 1 || recent[0].Attempts != 3 || recent[0].ErrorType != "" {
		t.Errorf("history = %+v", recent)
	}
}

func TestExecute_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 2}}
	c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		return nil, &ConnectivityError{Err: errors.New("connection refused")}
	})

	_, err := c.Execute(context.Background(), testQuery())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("err = %v, want ErrConnectivity", err)
	}
	if *calls != 2 {
		t.Errorf("calls = %d, want 2", *calls)
	}
}

func TestExecute_SingleAttemptDisablesRetry(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 1}}
	c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		return nil, &ConnectivityError{Err: errors.New("broken pipe")}
	})

	if _, err := c.Execute(context.Background(), testQuery()); err == nil {
		t.Fatal("expected error")
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestExecute_QueryErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 5}}
	c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		return nil, &QueryError{View: query.ViewGeoRegionSummary, Reason: "Binder Error"}
	})

	_, err := c.Execute(context.Background(), testQuery())
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("err = %v, want ErrQuery", err)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestExecute_CancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 3}}
	ctx, cancel := context.WithCancel(context.Background())
	c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		cancel()
		return nil, &ConnectivityError{Err: context.Canceled}
	})

	_, err := c.Execute(ctx, testQuery())
	if !errors.Is(err, ErrConnectivity) {
		t.Fatalf("err = %v, want ErrConnectivity", err)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
}

func TestBreaker_OpensOnConsecutiveConnectivityFailures(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{
		Retry: config.RetryConfig{MaxAttempts: 1},
		Breaker: config.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			Timeout:          time.Hour,
			MaxRequests:      1,
		},
	}
	c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		return nil, &ConnectivityError{Err: errors.New("connection refused")}
	})

	for i := 0; i < 3; i++ {
		_, _ = c.Execute(context.Background(), testQuery())
	}
	if got := c.Stats().BreakerState; got != "open" {
		t.Fatalf("breaker state = %q, want open", got)
	}

	_, err := c.Execute(context.Background(), testQuery())
	if !errors.Is(err, ErrConnectivity) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want ConnectivityError wrapping ErrOpenState", err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3 (open breaker must not reach the warehouse)", *calls)
	}
}

func TestBreaker_QueryErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	cfg := config.WarehouseConfig{
		Retry:   config.RetryConfig{MaxAttempts: 1},
		Breaker: config.BreakerConfig{Enabled: true, FailureThreshold: 2, Timeout: time.Hour},
	}
	c, _ := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
		return nil, &QueryError{Reason: "Catalog Error"}
	})

	for i := 0; i < 5; i++ {
		_, _ = c.Execute(context.Background(), testQuery())
	}
	if got := c.Stats().BreakerState; got != "closed" {
		t.Errorf("breaker state = %q, want closed", got)
	}
}

func TestExecute_BreakerRejectionsAreNotRetried(t *testing.T) {
	t.Parallel()

	for _, rejection := range []error{gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests} {
		t.Run(rejection.Error(), func(t *testing.T) {
			t.Parallel()

			cfg := config.WarehouseConfig{Retry: config.RetryConfig{MaxAttempts: 4}}
			c, calls := newTestClient(t, cfg, func(int) (*models.ResultSet, error) {
				return nil, &ConnectivityError{View: query.ViewGeoRegionSummary, Err: rejection}
			})

			_, err := c.Execute(context.Background(), testQuery())
			if !errors.Is(err, ErrConnectivity) || !errors.Is(err, rejection) {
				t.Fatalf("err = %v, want ConnectivityError wrapping %v", err, rejection)
			}
			if *calls != 1 {
				t.Errorf("calls = %d, want 1", *calls)
			}
		})
	}
}

func TestBreakerRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{gobreaker.ErrOpenState, true},
		{gobreaker.ErrTooManyRequests, true},
		{&ConnectivityError{Err: gobreaker.ErrTooManyRequests}, true},
		{&ConnectivityError{Err: errors.New("connection refused")}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := breakerRejected(tt.err); got != tt.want {
			t.Errorf("breakerRejected(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	c := &Client{cfg: config.WarehouseConfig{Retry: config.RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     300 * time.Millisecond,
		Multiplier:   2,
	}}}

	tests := []struct {
		n        int
		min, max time.Duration
	}{
		{1, 50 * time.Millisecond, 100 * time.Millisecond},
		{2, 100 * time.Millisecond, 200 * time.Millisecond},
		{3, 150 * time.Millisecond, 300 * time.Millisecond}, // capped
		{6, 150 * time.Millisecond, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			d := c.backoff(tt.n)
			if d < tt.min || d > tt.max {
				t.Errorf("backoff(%d) = %v, want within [%v, %v]", tt.n, d, tt.min, tt.max)
			}
		}
	}
}
