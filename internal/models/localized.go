// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the content records of the site and the
// per-language values they carry.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Localized holds one value per language code. It is stored as a jsonb
// object such as {"en": "Gold", "es": "Oro"}.
type Localized map[string]string

// Get returns the value for lang, or "" when it has not been translated.
func (l Localized) Get(lang string) string {
	return l[lang]
}

// Set stores value for lang; an empty value removes the translation.
func (l *Localized) Set(lang, value string) {
	if value == "" {
		delete(*l, lang)
		return
	}
	if *l == nil {
		*l = Localized{}
	}
	(*l)[lang] = value
}

// Fallback returns the value for lang, or the value for def when lang has
// no translation yet.
func (l Localized) Fallback(lang, def string) string {
	if v := l[lang]; v != "" {
		return v
	}
	return l[def]
}

// Scan implements sql.Scanner for jsonb columns.
func (l *Localized) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = Localized{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan localized: unsupported type %T", src)
	}

	out := Localized{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan localized: %w", err)
	}
	*l = out
	return nil
}

// Value implements driver.Valuer. A nil map is stored as an empty object.
func (l Localized) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(l))
	if err != nil {
		return nil, fmt.Errorf("encode localized: %w", err)
	}
	return string(b), nil
}

// fieldSet resolves field names to the Localized values of a record.
type fieldSet map[string]*Localized

func (fs fieldSet) get(field, lang string) string {
	if l, ok := fs[field]; ok {
		return l.Get(lang)
	}
	return ""
}

func (fs fieldSet) set(field, lang, value string) {
	if l, ok := fs[field]; ok {
		l.Set(lang, value)
	}
}
