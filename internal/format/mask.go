// Olistlens - Marketing Analytics Dashboard for the Olist Warehouse
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/olistlens

package format

import "strings"

// Identifier masking policy.
const (
	MaskPrefixLength = 4
	MaskLength       = 4
	MaskChar         = '*'
)

var maskSuffix = strings.Repeat(string(MaskChar), MaskLength)

// MaskIdentifier keeps the first MaskPrefixLength runes of id and replaces
// the rest with MaskLength mask characters. Shorter identifiers are kept
// whole and still receive the mask, so the output never reveals the length
// of the original.
func MaskIdentifier(id string) string {
	runes := []rune(id)
	if len(runes) > MaskPrefixLength {
		runes = runes[:MaskPrefixLength]
	}
	return string(runes) + maskSuffix
}
