// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultMaxAttempts bounds how many times a save is retried after a
// storage-level uniqueness conflict.
const DefaultMaxAttempts = 5

// FieldPair links a human-authored source field to the slug derived from it.
type FieldPair struct {
	Source string
	Slug   string
}

// Model describes one sluggable record type: the table that scopes its
// slugs and the field pairs it owns.
type Model struct {
	Name   string
	Table  string
	Fields []FieldPair
}

// Scope returns the uniqueness scope of a slug field in a language.
func (m Model) Scope(field, lang string) Scope {
	return Scope{Table: m.Table, Field: field, Language: lang}
}

// Entity is a record holding per-language values for its fields.
type Entity interface {
	// SlugOwnerID returns the primary key, or 0 before the first insert.
	SlugOwnerID() int64
	// FieldValue returns the value of field in lang, "" when unset.
	FieldValue(field, lang string) string
	// SetFieldValue stores value for field in lang. An empty value unsets it.
	SetFieldValue(field, lang, value string)
}

// Slot is a slug value assigned to one (field, language) of an entity.
type Slot struct {
	Field    string
	Language string
	Value    string
}

// StoredReader is implemented by Checkers that can read the slugs already
// committed for a record. Save merges them into the entity before filling,
// so saving a copy loaded before a slug was assigned never replaces it.
type StoredReader interface {
	StoredSlugs(ctx context.Context, m Model, id int64) ([]Slot, error)
}

// Config holds the allocator settings passed in at startup.
type Config struct {
	// Languages lists the supported languages; the first is the default.
	Languages []string
	// MaxLength caps generated slugs. Zero means DefaultMaxLength.
	MaxLength int
	// MaxAttempts bounds conflict retries. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

// Allocator assigns missing slugs when an entity is saved.
type Allocator struct {
	languages   []string
	maxLength   int
	maxAttempts int
	resolver    *Resolver
}

// NewAllocator creates an Allocator from cfg, applying defaults.
func NewAllocator(cfg Config) *Allocator {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		languages:   append([]string(nil), cfg.Languages...),
		maxLength:   cfg.MaxLength,
		maxAttempts: cfg.MaxAttempts,
		resolver:    NewResolver(cfg.MaxLength),
	}
}

// Languages returns the configured languages in order.
func (a *Allocator) Languages() []string {
	return append([]string(nil), a.languages...)
}

// Fill assigns a slug to every empty slug field of e whose source text is
// present, for every configured language. Existing slugs are left alone and
// so are fields without source text. It returns the slots it assigned.
func (a *Allocator) Fill(ctx context.Context, chk Checker, m Model, e Entity) ([]Slot, error) {
	var filled []Slot
	for _, pair := range m.Fields {
		for _, lang := range a.languages {
			if e.FieldValue(pair.Slug, lang) != "" {
				continue
			}
			source := e.FieldValue(pair.Source, lang)
			if source == "" {
				continue
			}

			base := Normalize(source, a.maxLength)
			value, err := a.resolver.Resolve(ctx, chk, base, m.Scope(pair.Slug, lang), e.SlugOwnerID())
			if err != nil {
				clearSlots(e, filled)
				return nil, err
			}

			e.SetFieldValue(pair.Slug, lang, value)
			filled = append(filled, Slot{Field: pair.Slug, Language: lang, Value: value})
		}
	}
	return filled, nil
}

// Assign fills the entity's missing slugs against a Checker and returns the
// slots it generated. Generated slots must be written as new rows; any other
// slug value on the entity was already stored or set by the caller.
type Assign func(chk Checker) ([]Slot, error)

// Attempt performs one save transaction. It must call assign with a Checker
// bound to that transaction before writing the entity.
type Attempt func(ctx context.Context, assign Assign) error

// Save runs attempt, retrying when storage rejects a freshly assigned slug
// with ErrUniquenessConflict. Before each retry the slots assigned by the
// failed attempt are cleared so they are resolved again against fresh state.
// After MaxAttempts conflicts it fails with ErrAllocationFailed.
//
// When the Checker is a StoredReader, slugs already stored for the record
// are copied into empty slug fields of e before filling.
func (a *Allocator) Save(ctx context.Context, m Model, e Entity, attempt Attempt) error {
	var lastErr error
	for n := 1; n <= a.maxAttempts; n++ {
		var filled, restored []Slot
		assign := func(chk Checker) ([]Slot, error) {
			var err error
			restored, err = a.restore(ctx, chk, m, e)
			if err != nil {
				return nil, err
			}
			slots, err := a.Fill(ctx, chk, m, e)
			filled = append(filled, slots...)
			return slots, err
		}

		err := attempt(ctx, assign)
		if err == nil {
			return nil
		}
		clearSlots(e, filled)
		clearSlots(e, restored)

		if !errors.Is(err, ErrUniquenessConflict) {
			return err
		}
		if len(filled) == 0 {
			// The colliding value was not generated here; a retry would
			// collide again.
			return err
		}

		lastErr = err
		slog.Warn("slug conflict, retrying save",
			"model", m.Name,
			"id", e.SlugOwnerID(),
			"attempt", n,
			"error", err,
		)
	}
	return fmt.Errorf("%w: %s after %d attempts: %w", ErrAllocationFailed, m.Name, a.maxAttempts, lastErr)
}

// restore copies the stored slugs of e into its empty slug fields and
// returns the slots it copied.
func (a *Allocator) restore(ctx context.Context, chk Checker, m Model, e Entity) ([]Slot, error) {
	r, ok := chk.(StoredReader)
	if !ok || e.SlugOwnerID() == 0 {
		return nil, nil
	}
	stored, err := r.StoredSlugs(ctx, m, e.SlugOwnerID())
	if err != nil {
		return nil, fmt.Errorf("%w: stored slugs of %s %d: %w", ErrLookupFailed, m.Name, e.SlugOwnerID(), err)
	}

	var restored []Slot
	for _, s := range stored {
		if e.FieldValue(s.Field, s.Language) != "" {
			continue
		}
		e.SetFieldValue(s.Field, s.Language, s.Value)
		restored = append(restored, s)
	}
	return restored, nil
}

func clearSlots(e Entity, slots []Slot) {
	for _, s := range slots {
		e.SetFieldValue(s.Field, s.Language, "")
	}
}
