// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/olistlens/internal/config"
	"github.com/tomtom215/olistlens/internal/logging"
	"github.com/tomtom215/olistlens/internal/metrics"
	"github.com/tomtom215/olistlens/internal/models"
	"github.com/tomtom215/olistlens/internal/query"
)

// InMemoryPath attaches an empty in-memory catalog instead of a file.
const InMemoryPath = ":memory:"

const breakerName = "warehouse"

// Client executes built queries against the warehouse. It is safe for
// concurrent use.
type Client struct {
	conn    *sql.DB
	cfg     config.WarehouseConfig
	breaker *gobreaker.CircuitBreaker[*models.ResultSet]
	history *History

	// exec runs a single attempt; replaced in tests.
	exec  func(ctx context.Context, q query.Query) (*models.ResultSet, error)
	sleep func(ctx context.Context, d time.Duration) error
}

// Stats is a health snapshot of the client.
type Stats struct {
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
	BreakerState    string `json:"breaker_state"`
}

// Open creates the DuckDB connection, attaches the warehouse under the
// project identifier and verifies it is reachable.
func Open(cfg config.WarehouseConfig) (*Client, error) {
	if cfg.ProjectID == "" || cfg.DatasetID == "" {
		return nil, errors.New("warehouse: project and dataset identifiers are required")
	}

	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	dsn := fmt.Sprintf("?threads=%d", numThreads)
	if cfg.MaxMemory != "" {
		dsn += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	c := newClient(conn, cfg)
	c.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.attach(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, err
	}

	logging.Info().
		Str("project", cfg.ProjectID).
		Str("dataset", cfg.DatasetID).
		Str("path", cfg.Path).
		Bool("read_only", cfg.ReadOnly).
		Msg("Warehouse attached")
	return c, nil
}

func newClient(conn *sql.DB, cfg config.WarehouseConfig) *Client {
	c := &Client{
		conn:    conn,
		cfg:     cfg,
		history: NewHistory(DefaultHistorySize),
		sleep:   sleepContext,
	}
	c.exec = c.runOnce
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c
}

func (c *Client) attach(ctx context.Context) error {
	path := c.cfg.Path
	if path == "" {
		path = InMemoryPath
	}
	stmt := fmt.Sprintf("ATTACH '%s' AS %s", strings.ReplaceAll(path, "'", "''"), quoteIdent(c.cfg.ProjectID))
	if c.cfg.ReadOnly && path != InMemoryPath {
		stmt += " (READ_ONLY)"
	}
	if _, err := c.conn.ExecContext(ctx, stmt); err != nil {
		return classify("", fmt.Errorf("attach %s: %w", path, err))
	}
	return nil
}

// configureConnectionPool sets connection pool parameters
func (c *Client) configureConnectionPool() {
	c.conn.SetMaxOpenConns(runtime.NumCPU())
	c.conn.SetMaxIdleConns(2)
	c.conn.SetConnMaxLifetime(time.Hour)
	c.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Conn returns the underlying database handle. Tests use it to seed tables.
func (c *Client) Conn() *sql.DB {
	return c.conn
}

// History returns the per-view execution history.
func (c *Client) History() *History {
	return c.history
}

// Ping verifies the warehouse is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.conn.PingContext(ctx); err != nil {
		return &ConnectivityError{Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Stats returns pool statistics and the breaker state.
func (c *Client) Stats() Stats {
	s := c.conn.Stats()
	metrics.WarehouseOpenConnections.Set(float64(s.OpenConnections))

	state := "disabled"
	if c.breaker != nil {
		state = stateToString(c.breaker.State())
	}
	return Stats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		BreakerState:    state,
	}
}

// Execute runs q and returns its rows in the declared schema. Failures are
// a *ConnectivityError or a *QueryError. Connectivity failures are retried
// with exponential backoff; query errors are returned immediately.
func (c *Client) Execute(ctx context.Context, q query.Query) (*models.ResultSet, error) {
	start := time.Now()
	rs, attempts, err := c.executeWithRetry(ctx, q)
	elapsed := time.Since(start)

	errType := ErrorType(err)
	metrics.RecordWarehouseQuery(string(q.View), elapsed, rs.Len(), errType)

	exec := Execution{
		View:       q.View,
		Table:      q.Table,
		Rows:       rs.Len(),
		DurationMS: float64(elapsed.Microseconds()) / 1000,
		Attempts:   attempts,
		ErrorType:  errType,
		Timestamp:  start,
	}
	if err != nil {
		exec.Error = err.Error()
	}
	c.history.Record(exec)

	log := logging.Ctx(ctx)
	switch errType {
	case "":
		log.Debug().
			Str("view", string(q.View)).
			Int("rows", rs.Len()).
			Dur("duration", elapsed).
			Int("attempts", attempts).
			Msg("Warehouse query executed")
	case ErrorTypeConnectivity:
		log.Warn().Err(err).
			Str("view", string(q.View)).
			Int("attempts", attempts).
			Msg("Warehouse unreachable")
	default:
		log.Error().Err(err).
			Str("view", string(q.View)).
			Str("sql", q.SQL).
			Msg("Warehouse query failed")
	}

	if err != nil {
		return nil, err
	}
	return rs, nil
}

func (c *Client) executeWithRetry(ctx context.Context, q query.Query) (*models.ResultSet, int, error) {
	maxAttempts := c.cfg.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.RecordWarehouseRetry(string(q.View))
			if err := c.sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, attempt - 1, &ConnectivityError{View: q.View, Err: err}
			}
		}

		rs, err := c.attempt(ctx, q)
		if err == nil {
			return rs, attempt, nil
		}
		lastErr = err

		if !IsRetryable(err) || ctx.Err() != nil || breakerRejected(err) {
			return nil, attempt, err
		}
	}
	return nil, maxAttempts, lastErr
}

// breakerRejected reports whether err is the breaker refusing the call
// rather than the warehouse failing it. Retrying those only spins.
func breakerRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// attempt runs one execution through the circuit breaker.
func (c *Client) attempt(ctx context.Context, q query.Query) (*models.ResultSet, error) {
	if c.breaker == nil {
		return c.exec(ctx, q)
	}

	rs, err := c.breaker.Execute(func() (*models.ResultSet, error) {
		return c.exec(ctx, q)
	})
	switch {
	case breakerRejected(err):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		return nil, &ConnectivityError{View: q.View, Err: err}
	case err != nil && IsRetryable(err):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(c.breaker.Counts().ConsecutiveFailures))
		return nil, err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
		return rs, err
	}
}

// runOnce executes q under the query timeout and scans the result.
func (c *Client) runOnce(ctx context.Context, q query.Query) (*models.ResultSet, error) {
	if c.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.QueryTimeout)
		defer cancel()
	}

	rows, err := c.conn.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, classify(q.View, err)
	}
	defer closeQuietly(rows)

	return scanResultSet(q.View, rows, q.Columns)
}

// backoff returns the jittered delay before retry n (1-based).
func (c *Client) backoff(n int) time.Duration {
	r := c.cfg.Retry
	initial := r.InitialDelay
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	mult := r.Multiplier
	if mult < 1 {
		mult = 2
	}

	d := float64(initial) * math.Pow(mult, float64(n-1))
	if r.MaxDelay > 0 && d > float64(r.MaxDelay) {
		d = float64(r.MaxDelay)
	}
	// Jitter within [d/2, d).
	half := d / 2
	return time.Duration(half + rand.Float64()*half)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Debug().Err(err).Msg("close failed")
	}
}
