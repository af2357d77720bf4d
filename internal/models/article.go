// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Article is an editorial piece, optionally tied to a category and a country.
type Article struct {
	ID         int64     `json:"id"`
	Title      Localized `json:"title"`
	Content    Localized `json:"content"`
	Slug       Localized `json:"slug"`
	CategoryID *int64    `json:"category_id,omitempty"`
	CountryID  *int64    `json:"country_id,omitempty"`
	Publish    bool      `json:"publish"`
	CoverImage *string   `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Article) fields() fieldSet {
	return fieldSet{FieldTitle: &a.Title, FieldContent: &a.Content, FieldSlug: &a.Slug}
}

// SlugOwnerID implements slug.Entity.
func (a *Article) SlugOwnerID() int64 { return a.ID }

// FieldValue implements slug.Entity.
func (a *Article) FieldValue(field, lang string) string { return a.fields().get(field, lang) }

// SetFieldValue implements slug.Entity.
func (a *Article) SetFieldValue(field, lang, value string) { a.fields().set(field, lang, value) }
