// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"unicode/utf8"
)

// Request limits for the public endpoints.
const (
	maxSlugLen   = 255
	maxQueryLen  = 100
	searchLimit  = 20
	homeObjects  = 6
	homeArticles = 5
)

// validateSlugParam rejects slug path segments that cannot exist in
// storage, so they are answered without a query.
func validateSlugParam(value string) string {
	if value == "" {
		return "Slug is required."
	}
	if len(value) > maxSlugLen {
		return "Slug is too long (max 255 bytes)."
	}
	return ""
}

// validateQuery checks a search query and returns the first error found.
// An empty query is valid and matches nothing.
func validateQuery(q string) string {
	if utf8.RuneCountInString(strings.TrimSpace(q)) > maxQueryLen {
		return "Query is too long (max 100 characters)."
	}
	return ""
}
