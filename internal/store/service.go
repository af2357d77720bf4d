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

// ServiceStore handles consultancy services.
type ServiceStore struct {
	db    *sql.DB
	alloc *slug.Allocator
}

// NewServiceStore creates a new ServiceStore.
func NewServiceStore(db *sql.DB, alloc *slug.Allocator) *ServiceStore {
	return &ServiceStore{db: db, alloc: alloc}
}

var serviceColumns = `s.id, s.title, s.description, ` + slugColumn(models.TableServices, models.FieldSlug, "s") +
	`, s.active, s.created_at, s.updated_at`

func scanService(row scanner) (*models.Service, error) {
	s := &models.Service{}
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Slug, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new service and assigns its slugs.
func (s *ServiceStore) Create(ctx context.Context, svc *models.Service) error {
	id, err := persist(ctx, s.db, s.alloc, models.ServiceModel, svc, func(tx *sql.Tx) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO services (title, description, active) VALUES ($1, $2, $3)
			RETURNING id
		`, svc.Title, svc.Description, svc.Active).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("create service: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	svc.ID = id
	return nil
}

// Update saves an existing service, filling slugs that are still missing.
func (s *ServiceStore) Update(ctx context.Context, svc *models.Service) error {
	_, err := persist(ctx, s.db, s.alloc, models.ServiceModel, svc, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE services SET title = $1, description = $2, active = $3, updated_at = NOW()
			WHERE id = $4
		`, svc.Title, svc.Description, svc.Active, svc.ID)
		if err != nil {
			return 0, fmt.Errorf("update service: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("update service %d: %w", svc.ID, sql.ErrNoRows)
		}
		return svc.ID, nil
	})
	return err
}

// Delete removes a service and its slugs.
func (s *ServiceStore) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.db, models.TableServices, id)
}

// FindByID retrieves a service by ID. Returns nil if not found.
func (s *ServiceStore) FindByID(ctx context.Context, id int64) (*models.Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+` FROM services s WHERE s.id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service by id: %w", err)
	}
	return svc, nil
}

// FindBySlug retrieves an active service by its slug in lang. Returns nil
// if not found.
func (s *ServiceStore) FindBySlug(ctx context.Context, lang, value string) (*models.Service, error) {
	svc, err := scanService(s.db.QueryRowContext(ctx, `
		SELECT `+serviceColumns+` FROM services s
		`+slugJoin(models.TableServices, models.FieldSlug, "s", 1, 2)+`
		WHERE s.active
	`, lang, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find service by slug: %w", err)
	}
	return svc, nil
}

// ListActive returns all active services in creation order.
func (s *ServiceStore) ListActive(ctx context.Context) ([]models.Service, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+serviceColumns+` FROM services s
		WHERE s.active
		ORDER BY s.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var items []models.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		items = append(items, *svc)
	}
	return items, rows.Err()
}
