// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrLookupFailed wraps a failed existence query. No slug is assigned.
	ErrLookupFailed = errors.New("slug lookup failed")

	// ErrUniquenessConflict reports that storage rejected a slug write
	// because another record in the same scope already holds the value.
	ErrUniquenessConflict = errors.New("slug uniqueness conflict")

	// ErrAllocationFailed is returned once conflict retries are exhausted.
	ErrAllocationFailed = errors.New("slug allocation failed")
)

// Scope is the unit of slug uniqueness.
type Scope struct {
	Table    string
	Field    string
	Language string
}

func (s Scope) String() string {
	return s.Table + "." + s.Field + "[" + s.Language + "]"
}

// Checker answers existence queries against storage. Implementations used
// during a save must see the same transaction the entity is written in.
type Checker interface {
	// SlugExists reports whether a record other than excludeID holds value
	// in scope. excludeID is 0 for records that have not been inserted yet.
	SlugExists(ctx context.Context, scope Scope, value string, excludeID int64) (bool, error)
}

// Resolver finds the first unused variant of a base slug.
type Resolver struct {
	maxLength int
}

// NewResolver returns a Resolver whose candidates never exceed maxLength.
func NewResolver(maxLength int) *Resolver {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Resolver{maxLength: maxLength}
}

// Resolve returns base if it is free in scope, otherwise the first free
// candidate of base-1, base-2, ... Each candidate costs one Checker query; a
// failed query aborts with ErrLookupFailed.
func (r *Resolver) Resolve(ctx context.Context, chk Checker, base string, scope Scope, excludeID int64) (string, error) {
	candidate := base
	for counter := 1; ; counter++ {
		exists, err := chk.SlugExists(ctx, scope, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("%w: %s %q: %w", ErrLookupFailed, scope, candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = r.suffixed(base, counter)
	}
}

// suffixed appends -n to base, shortening base when the result would
// overflow the length limit.
func (r *Resolver) suffixed(base string, n int) string {
	digits := strconv.Itoa(n)
	suffix := "-" + digits
	room := max(r.maxLength-len(suffix), 0)
	if len(base) > room {
		base = strings.TrimRight(base[:room], "-")
	}
	if base == "" {
		base = strings.TrimRight(Fallback[:min(len(Fallback), room)], "-")
	}
	if base == "" {
		// No room left for text; the counter alone is the candidate.
		return digits
	}
	return base + suffix
}
