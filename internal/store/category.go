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

// CategoryStore manages article categories in the database.
type CategoryStore struct {
	db    *sql.DB
	alloc *slug.Allocator
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB, alloc *slug.Allocator) *CategoryStore {
	return &CategoryStore{db: db, alloc: alloc}
}

var categoryColumns = `c.id, c.name, ` + slugColumn(models.TableArticleCategories, models.FieldSlug, "c") +
	`, c.created_at, c.updated_at`

// scanCategory scans a row into an ArticleCategory struct.
func scanCategory(row scanner) (*models.ArticleCategory, error) {
	var c models.ArticleCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category and assigns its slugs.
func (s *CategoryStore) Create(ctx context.Context, c *models.ArticleCategory) error {
	id, err := persist(ctx, s.db, s.alloc, models.ArticleCategoryModel, c, func(tx *sql.Tx) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO article_categories (name) VALUES ($1) RETURNING id`, c.Name,
		).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("create category: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Update saves an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.ArticleCategory) error {
	_, err := persist(ctx, s.db, s.alloc, models.ArticleCategoryModel, c, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx,
			`UPDATE article_categories SET name = $1, updated_at = NOW() WHERE id = $2`, c.Name, c.ID)
		if err != nil {
			return 0, fmt.Errorf("update category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("update category %d: %w", c.ID, sql.ErrNoRows)
		}
		return c.ID, nil
	})
	return err
}

// Delete removes a category and its slugs. Articles keep existing without
// a category.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.db, models.TableArticleCategories, id)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.ArticleCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM article_categories c WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by its slug in lang. Returns nil if not
// found.
func (s *CategoryStore) FindBySlug(ctx context.Context, lang, value string) (*models.ArticleCategory, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM article_categories c
		`+slugJoin(models.TableArticleCategories, models.FieldSlug, "c", 1, 2), lang, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// List returns all categories in creation order.
func (s *CategoryStore) List(ctx context.Context) ([]models.ArticleCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM article_categories c ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.ArticleCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
