// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// LandingPage is a campaign page, optionally promoting one service.
type LandingPage struct {
	ID        int64     `json:"id"`
	Title     Localized `json:"title"`
	Content   Localized `json:"content"`
	Slug      Localized `json:"slug"`
	ServiceID *int64    `json:"service_id,omitempty"`
	Publish   bool      `json:"publish"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *LandingPage) fields() fieldSet {
	return fieldSet{FieldTitle: &p.Title, FieldContent: &p.Content, FieldSlug: &p.Slug}
}

// SlugOwnerID implements slug.Entity.
func (p *LandingPage) SlugOwnerID() int64 { return p.ID }

// FieldValue implements slug.Entity.
func (p *LandingPage) FieldValue(field, lang string) string { return p.fields().get(field, lang) }

// SetFieldValue implements slug.Entity.
func (p *LandingPage) SetFieldValue(field, lang, value string) { p.fields().set(field, lang, value) }
