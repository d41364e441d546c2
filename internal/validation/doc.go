// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by every HTTP handler. Besides
// the built-in tags it registers three application tags:
//
//	identifier  lowercase warehouse identifier (view IDs, column names)
//	filterexpr  column:value or column:op:v1[,v2...]
//	sortexpr    column or column:asc|desc
//
// Fields may carry a `param` struct tag; errors then name the query
// parameter instead of the Go field:
//
//	type ViewParams struct {
//	    View    string   `param:"view" validate:"required,identifier"`
//	    Filters []string `param:"filter" validate:"max=20,dive,filterexpr"`
//	}
//
// ValidateStruct returns a *RequestValidationError whose ToAPIError method
// yields the VALIDATION_ERROR payload written by the api package:
//
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "sort must look like column or column:asc|desc",
//	    "details": {"field": "sort", "tag": "sortexpr", "value": "x:sideways"}
//	}
//
// These checks are syntactic. Whether a column exists or may be filtered
// on is decided by the query builder against the view catalog.
package validation
