// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Service is a consultancy offering (offshore setup, banking, legal).
type Service struct {
	ID          int64     `json:"id"`
	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	Slug        Localized `json:"slug"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Service) fields() fieldSet {
	return fieldSet{FieldTitle: &s.Title, FieldDescription: &s.Description, FieldSlug: &s.Slug}
}

// SlugOwnerID implements slug.Entity.
func (s *Service) SlugOwnerID() int64 { return s.ID }

// FieldValue implements slug.Entity.
func (s *Service) FieldValue(field, lang string) string { return s.fields().get(field, lang) }

// SetFieldValue implements slug.Entity.
func (s *Service) SetFieldValue(field, lang, value string) { s.fields().set(field, lang, value) }
