// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"investpress/internal/models"
)

// InvestmentStore handles investment objects. They carry translated text
// but no slug, so saves bypass the allocator.
type InvestmentStore struct {
	db *sql.DB
}

// NewInvestmentStore creates a new InvestmentStore.
func NewInvestmentStore(db *sql.DB) *InvestmentStore {
	return &InvestmentStore{db: db}
}

const investmentColumns = `i.id, i.title, i.description, i.country_id, i.price::text,
	i.expected_roi::text, i.active, i.images, i.created_at, i.updated_at`

func scanInvestment(row scanner) (*models.InvestmentObject, error) {
	o := &models.InvestmentObject{}
	err := row.Scan(
		&o.ID, &o.Title, &o.Description, &o.CountryID, &o.Price,
		&o.ExpectedROI, &o.Active, &o.Images, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func collectInvestments(rows *sql.Rows) ([]models.InvestmentObject, error) {
	defer rows.Close()
	var items []models.InvestmentObject
	for rows.Next() {
		o, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan investment object: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

// Create inserts a new investment object.
func (s *InvestmentStore) Create(ctx context.Context, o *models.InvestmentObject) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO investment_objects (title, description, country_id, price, expected_roi, active, images)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7)
		RETURNING id, created_at, updated_at
	`, o.Title, o.Description, o.CountryID, o.Price, o.ExpectedROI, o.Active, o.Images,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create investment object: %w", err)
	}
	return nil
}

// Update saves an existing investment object.
func (s *InvestmentStore) Update(ctx context.Context, o *models.InvestmentObject) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE investment_objects
		SET title = $1, description = $2, country_id = $3, price = $4::numeric,
		    expected_roi = $5::numeric, active = $6, images = $7, updated_at = NOW()
		WHERE id = $8
	`, o.Title, o.Description, o.CountryID, o.Price, o.ExpectedROI, o.Active, o.Images, o.ID)
	if err != nil {
		return fmt.Errorf("update investment object: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update investment object %d: %w", o.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete removes an investment object.
func (s *InvestmentStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM investment_objects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete investment object: %w", err)
	}
	return nil
}

// FindByID retrieves an investment object by ID. Returns nil if not found.
func (s *InvestmentStore) FindByID(ctx context.Context, id int64) (*models.InvestmentObject, error) {
	o, err := scanInvestment(s.db.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investment_objects i WHERE i.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find investment object by id: %w", err)
	}
	return o, nil
}

// ListByCountry returns the active investment objects of a country, best
// expected return first.
func (s *InvestmentStore) ListByCountry(ctx context.Context, countryID int64) ([]models.InvestmentObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+investmentColumns+` FROM investment_objects i
		WHERE i.active AND i.country_id = $1
		ORDER BY i.expected_roi DESC, i.id
	`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list investment objects by country: %w", err)
	}
	return collectInvestments(rows)
}

// ListActive returns up to limit active investment objects, oldest first.
func (s *InvestmentStore) ListActive(ctx context.Context, limit int) ([]models.InvestmentObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+investmentColumns+` FROM investment_objects i
		WHERE i.active
		ORDER BY i.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list active investment objects: %w", err)
	}
	return collectInvestments(rows)
}

// Search returns active investment objects whose title or description in
// lang contains q, case-insensitively.
func (s *InvestmentStore) Search(ctx context.Context, lang, q string, limit int) ([]models.InvestmentObject, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+investmentColumns+` FROM investment_objects i
		WHERE i.active AND (i.title->>$1 ILIKE $2 OR i.description->>$1 ILIKE $2)
		ORDER BY i.expected_roi DESC, i.id
		LIMIT $3
	`, lang, containsPattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search investment objects: %w", err)
	}
	return collectInvestments(rows)
}
