// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary
// strings. Slugs are the deduplication keys for tags, so normalization
// must be stable: the same display name always yields the same slug.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs. Longer input is truncated after
// normalization.
const MaxLen = 50

// nonAlphanumeric matches every run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes to canonical form and drops combining marks,
// so "ÉBOLA" and "ebola" normalize identically.
var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize creates a URL-friendly slug from the given string.
// Example: "Crème Brûlée, 2026!" → "creme-brulee-2026"
func Normalize(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))

	if folded, _, err := transform.String(stripMarks, result); err == nil {
		result = folded
	}

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLen {
		result = strings.Trim(result[:MaxLen], "-")
	}
	return result
}
