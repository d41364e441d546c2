// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package query

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is matched by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// InvalidRequestError describes why a request was rejected before any SQL
// was built. It is a caller error and is never retried.
type InvalidRequestError struct {
	View   ViewID
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	switch {
	case e.View != "" && e.Field != "":
		return fmt.Sprintf("invalid request for view %s: %s: %s", e.View, e.Field, e.Reason)
	case e.View != "":
		return fmt.Sprintf("invalid request for view %s: %s", e.View, e.Reason)
	default:
		return fmt.Sprintf("invalid request: %s", e.Reason)
	}
}

// Is makes errors.Is(err, ErrInvalidRequest) true.
func (e *InvalidRequestError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func invalid(view ViewID, field, format string, args ...any) error {
	return &InvalidRequestError{View: view, Field: field, Reason: fmt.Sprintf(format, args...)}
}
