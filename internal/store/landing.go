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

// LandingPageStore handles service landing pages.
type LandingPageStore struct {
	db    *sql.DB
	alloc *slug.Allocator
}

// NewLandingPageStore creates a new LandingPageStore.
func NewLandingPageStore(db *sql.DB, alloc *slug.Allocator) *LandingPageStore {
	return &LandingPageStore{db: db, alloc: alloc}
}

var landingColumns = `p.id, p.title, p.content, ` + slugColumn(models.TableLandingPages, models.FieldSlug, "p") +
	`, p.service_id, p.publish, p.created_at, p.updated_at`

func scanLanding(row scanner) (*models.LandingPage, error) {
	p := &models.LandingPage{}
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Slug, &p.ServiceID, &p.Publish, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new landing page and assigns its slugs.
func (s *LandingPageStore) Create(ctx context.Context, p *models.LandingPage) error {
	id, err := persist(ctx, s.db, s.alloc, models.LandingPageModel, p, func(tx *sql.Tx) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO landing_pages (title, content, service_id, publish)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, p.Title, p.Content, p.ServiceID, p.Publish).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("create landing page: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update saves an existing landing page.
func (s *LandingPageStore) Update(ctx context.Context, p *models.LandingPage) error {
	_, err := persist(ctx, s.db, s.alloc, models.LandingPageModel, p, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE landing_pages
			SET title = $1, content = $2, service_id = $3, publish = $4, updated_at = NOW()
			WHERE id = $5
		`, p.Title, p.Content, p.ServiceID, p.Publish, p.ID)
		if err != nil {
			return 0, fmt.Errorf("update landing page: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("update landing page %d: %w", p.ID, sql.ErrNoRows)
		}
		return p.ID, nil
	})
	return err
}

// Delete removes a landing page and its slugs.
func (s *LandingPageStore) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.db, models.TableLandingPages, id)
}

// FindByID retrieves a landing page by ID. Returns nil if not found.
func (s *LandingPageStore) FindByID(ctx context.Context, id int64) (*models.LandingPage, error) {
	p, err := scanLanding(s.db.QueryRowContext(ctx,
		`SELECT `+landingColumns+` FROM landing_pages p WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find landing page by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a published landing page by its slug in lang.
// Returns nil if not found.
func (s *LandingPageStore) FindBySlug(ctx context.Context, lang, value string) (*models.LandingPage, error) {
	p, err := scanLanding(s.db.QueryRowContext(ctx, `
		SELECT `+landingColumns+` FROM landing_pages p
		`+slugJoin(models.TableLandingPages, models.FieldSlug, "p", 1, 2)+`
		WHERE p.publish
	`, lang, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find landing page by slug: %w", err)
	}
	return p, nil
}
