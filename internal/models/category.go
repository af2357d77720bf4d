// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// ArticleCategory groups articles by topic, e.g. gold, fuel or legal.
type ArticleCategory struct {
	ID        int64     `json:"id"`
	Name      Localized `json:"name"`
	Slug      Localized `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ArticleCategory) fields() fieldSet {
	return fieldSet{FieldName: &c.Name, FieldSlug: &c.Slug}
}

// SlugOwnerID implements slug.Entity.
func (c *ArticleCategory) SlugOwnerID() int64 { return c.ID }

// FieldValue implements slug.Entity.
func (c *ArticleCategory) FieldValue(field, lang string) string { return c.fields().get(field, lang) }

// SetFieldValue implements slug.Entity.
func (c *ArticleCategory) SetFieldValue(field, lang, value string) { c.fields().set(field, lang, value) }
