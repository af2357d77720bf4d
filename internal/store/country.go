// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"investpress/internal/models"
	"investpress/internal/slug"
)

// CountryStore handles country records and their per-language slugs.
type CountryStore struct {
	db    *sql.DB
	alloc *slug.Allocator
}

// NewCountryStore creates a new CountryStore.
func NewCountryStore(db *sql.DB, alloc *slug.Allocator) *CountryStore {
	return &CountryStore{db: db, alloc: alloc}
}

var countryColumns = `c.id, c.name, ` + slugColumn(models.TableCountries, models.FieldSlug, "c") +
	`, c.active, c.created_at, c.updated_at`

func scanCountry(row scanner) (*models.Country, error) {
	c := &models.Country{}
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new country, assigning slugs for every language that
// has a name.
func (s *CountryStore) Create(ctx context.Context, c *models.Country) error {
	id, err := persist(ctx, s.db, s.alloc, models.CountryModel, c, func(tx *sql.Tx) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO countries (name, active) VALUES ($1, $2)
			RETURNING id
		`, c.Name, c.Active).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("create country: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Update saves an existing country. Slugs already assigned are kept even if
// the name changed; missing ones are filled.
func (s *CountryStore) Update(ctx context.Context, c *models.Country) error {
	_, err := persist(ctx, s.db, s.alloc, models.CountryModel, c, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE countries SET name = $1, active = $2, updated_at = NOW()
			WHERE id = $3
		`, c.Name, c.Active, c.ID)
		if err != nil {
			return 0, fmt.Errorf("update country: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("update country %d: %w", c.ID, sql.ErrNoRows)
		}
		return c.ID, nil
	})
	return err
}

// Delete removes a country and its slugs.
func (s *CountryStore) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.db, models.TableCountries, id)
}

// FindByID retrieves a country by ID. Returns nil if not found.
func (s *CountryStore) FindByID(ctx context.Context, id int64) (*models.Country, error) {
	c, err := scanCountry(s.db.QueryRowContext(ctx, `
		SELECT `+countryColumns+` FROM countries c WHERE c.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find country by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves an active country by its slug in lang. Returns nil
// if not found.
func (s *CountryStore) FindBySlug(ctx context.Context, lang, value string) (*models.Country, error) {
	c, err := scanCountry(s.db.QueryRowContext(ctx, `
		SELECT `+countryColumns+` FROM countries c
		`+slugJoin(models.TableCountries, models.FieldSlug, "c", 1, 2)+`
		WHERE c.active
	`, lang, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find country by slug: %w", err)
	}
	return c, nil
}

// ListActive returns all active countries in creation order.
func (s *CountryStore) ListActive(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+countryColumns+` FROM countries c
		WHERE c.active
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var items []models.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
