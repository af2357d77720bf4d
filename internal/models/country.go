// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Country groups investment objects and articles about one jurisdiction.
type Country struct {
	ID        int64     `json:"id"`
	Name      Localized `json:"name"`
	Slug      Localized `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Country) fields() fieldSet {
	return fieldSet{FieldName: &c.Name, FieldSlug: &c.Slug}
}

// SlugOwnerID implements slug.Entity.
func (c *Country) SlugOwnerID() int64 { return c.ID }

// FieldValue implements slug.Entity.
func (c *Country) FieldValue(field, lang string) string { return c.fields().get(field, lang) }

// SetFieldValue implements slug.Entity.
func (c *Country) SetFieldValue(field, lang, value string) { c.fields().set(field, lang, value) }
