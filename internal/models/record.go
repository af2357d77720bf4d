// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Record is a schema-less view of a sluggable row: its primary key and the
// Localized values of the fields named in the slug configuration table.
// Batch repair loads rows of any model as Records.
type Record struct {
	ID     int64
	Fields map[string]Localized
}

// NewRecord returns an empty Record for id.
func NewRecord(id int64) *Record {
	return &Record{ID: id, Fields: map[string]Localized{}}
}

// SlugOwnerID implements slug.Entity.
func (r *Record) SlugOwnerID() int64 { return r.ID }

// FieldValue implements slug.Entity.
func (r *Record) FieldValue(field, lang string) string {
	return r.Fields[field].Get(lang)
}

// SetFieldValue implements slug.Entity.
func (r *Record) SetFieldValue(field, lang, value string) {
	l := r.Fields[field]
	l.Set(lang, value)
	r.Fields[field] = l
}
