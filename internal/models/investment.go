// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// InvestmentObject is a listed investment opportunity in a country. Its
// texts are translated but it has no slug; it is addressed by ID.
type InvestmentObject struct {
	ID          int64     `json:"id"`
	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	CountryID   int64     `json:"country_id"`
	Price       *string   `json:"price,omitempty"`
	ExpectedROI string    `json:"expected_roi"`
	Active      bool      `json:"active"`
	Images      ImageList `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageList is a list of image URLs stored as a jsonb array.
type ImageList []string

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan image list: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("encode image list: %w", err)
	}
	return string(b), nil
}
