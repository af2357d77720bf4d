// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe identifiers from translatable text and keeps
// them unique per (table, field, language) scope. It holds the normalizer,
// the uniqueness resolver, the save-time allocator and the batch repairer.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMaxLength is the slug length used when none is configured.
	DefaultMaxLength = 240

	// MinMaxLength is the smallest length limit accepted by configuration.
	// It leaves room for Fallback plus a counter suffix.
	MinMaxLength = 16

	// Fallback is returned when the input yields no usable characters.
	Fallback = "item"
)

var (
	// nonAlphanumeric matches every run of characters that isn't a-z or 0-9,
	// whitespace and hyphens included.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

	// stripMarks decomposes accented letters and drops the combining marks.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize creates a URL-friendly slug from the given text, at most
// maxLength characters long. It never fails: input without any usable
// characters produces Fallback.
// Example: "Café Münich!" → "cafe-munich"
func Normalize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	result, _, err := transform.String(stripMarks, text)
	if err != nil {
		result = text
	}
	result = unidecode.Unidecode(result)
	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	result = truncate(result, maxLength)
	if result == "" {
		return Fallback
	}
	return result
}

// truncate cuts s to n bytes and drops any hyphen left dangling by the cut.
// s is ASCII at this point, so bytes and characters coincide.
func truncate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

// IsValid checks if a string is a canonical slug: non-empty, lowercase
// ASCII letters, digits and single inner hyphens only.
func IsValid(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	return !strings.Contains(s, "--")
}
