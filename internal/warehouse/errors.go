// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package warehouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/olistlens/internal/query"
)

// Sentinel errors matched with errors.Is.
var (
	// ErrConnectivity marks transient failures to reach the warehouse.
	ErrConnectivity = errors.New("warehouse unreachable")

	// ErrQuery marks failures of the statement itself: parser, binder and
	// catalog errors, or a result whose columns drifted from the declared
	// schema.
	ErrQuery = errors.New("warehouse query failed")
)

// Error type labels used in metrics and logs.
const (
	ErrorTypeConnectivity = "connectivity"
	ErrorTypeQuery        = "query"
)

// ConnectivityError is a transient failure: network or auth problems, a
// closed database, a deadline, or an open circuit breaker. It is safe to
// retry.
type ConnectivityError struct {
	View query.ViewID
	Err  error
}

func (e *ConnectivityError) Error() string {
	if e.View == "" {
		return fmt.Sprintf("warehouse unreachable: %v", e.Err)
	}
	return fmt.Sprintf("warehouse unreachable for view %s: %v", e.View, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConnectivity) true.
func (e *ConnectivityError) Is(target error) bool { return target == ErrConnectivity }

// QueryError indicates a mismatch between code and warehouse schema. It is
// not transient and is never retried.
type QueryError struct {
	View   query.ViewID
	Reason string
	Err    error
}

func (e *QueryError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	return fmt.Sprintf("warehouse query failed for view %s: %s", e.View, msg)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrQuery) true.
func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnectivity)
}

// ErrorType returns the metrics label for err, or "" for nil.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectivity):
		return ErrorTypeConnectivity
	default:
		return ErrorTypeQuery
	}
}

// classify maps a driver error to ConnectivityError or QueryError.
func classify(view query.ViewID, err error) error {
	if err == nil {
		return nil
	}

	var ce *ConnectivityError
	var qe *QueryError
	if errors.As(err, &ce) || errors.As(err, &qe) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		isConnectionError(err):
		return &ConnectivityError{View: view, Err: err}
	default:
		return &QueryError{View: view, Err: err}
	}
}

// isConnectionError checks if an error indicates warehouse connection loss
// or an authentication failure on attach.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"database is closed",
		"i/o timeout",
		"no such host",
		"permission denied",
		"authentication",
		"could not set lock on file",
		"io error:",
	} {
		if strings.Contains(errMsg, needle) {
			return true
		}
	}
	return false
}
