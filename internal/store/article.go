// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"investpress/internal/models"
	"investpress/internal/slug"
)

// ArticleStore handles articles.
type ArticleStore struct {
	db    *sql.DB
	alloc *slug.Allocator
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db *sql.DB, alloc *slug.Allocator) *ArticleStore {
	return &ArticleStore{db: db, alloc: alloc}
}

var articleColumns = `a.id, a.title, a.content, ` + slugColumn(models.TableArticles, models.FieldSlug, "a") +
	`, a.category_id, a.country_id, a.publish, a.cover_image, a.created_at, a.updated_at`

func scanArticle(row scanner) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Slug,
		&a.CategoryID, &a.CountryID, &a.Publish, &a.CoverImage,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func collectArticles(rows *sql.Rows) ([]models.Article, error) {
	defer rows.Close()
	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Create inserts a new article and assigns its slugs.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) error {
	id, err := persist(ctx, s.db, s.alloc, models.ArticleModel, a, func(tx *sql.Tx) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO articles (title, content, category_id, country_id, publish, cover_image)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, a.Title, a.Content, a.CategoryID, a.CountryID, a.Publish, a.CoverImage).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("create article: %w", err)
		}
		return id, nil
	})
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// Update saves an existing article.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) error {
	_, err := persist(ctx, s.db, s.alloc, models.ArticleModel, a, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE articles
			SET title = $1, content = $2, category_id = $3, country_id = $4,
			    publish = $5, cover_image = $6, updated_at = NOW()
			WHERE id = $7
		`, a.Title, a.Content, a.CategoryID, a.CountryID, a.Publish, a.CoverImage, a.ID)
		if err != nil {
			return 0, fmt.Errorf("update article: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, fmt.Errorf("update article %d: %w", a.ID, sql.ErrNoRows)
		}
		return a.ID, nil
	})
	return err
}

// Delete removes an article and its slugs.
func (s *ArticleStore) Delete(ctx context.Context, id int64) error {
	return remove(ctx, s.db, models.TableArticles, id)
}

// FindByID retrieves an article by ID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id int64) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindBySlug retrieves a published article by its slug in lang. Returns nil
// if not found.
func (s *ArticleStore) FindBySlug(ctx context.Context, lang, value string) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM articles a
		`+slugJoin(models.TableArticles, models.FieldSlug, "a", 1, 2)+`
		WHERE a.publish
	`, lang, value))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// ListPublished returns the latest published articles, newest first.
func (s *ArticleStore) ListPublished(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles a
		WHERE a.publish
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list published articles: %w", err)
	}
	return collectArticles(rows)
}

// ListByCountry returns the published articles about a country, newest
// first.
func (s *ArticleStore) ListByCountry(ctx context.Context, countryID int64) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles a
		WHERE a.publish AND a.country_id = $1
		ORDER BY a.created_at DESC, a.id DESC
	`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list articles by country: %w", err)
	}
	return collectArticles(rows)
}

// ListByCategorySlug returns the published articles of the category whose
// slug in lang is value, newest first.
func (s *ArticleStore) ListByCategorySlug(ctx context.Context, lang, value string) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles a
		JOIN article_categories c ON c.id = a.category_id
		`+slugJoin(models.TableArticleCategories, models.FieldSlug, "c", 1, 2)+`
		WHERE a.publish
		ORDER BY a.created_at DESC, a.id DESC
	`, lang, value)
	if err != nil {
		return nil, fmt.Errorf("list articles by category: %w", err)
	}
	return collectArticles(rows)
}

// Search returns published articles whose title or content in lang
// contains q, case-insensitively.
func (s *ArticleStore) Search(ctx context.Context, lang, q string, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+` FROM articles a
		WHERE a.publish AND (a.title->>$1 ILIKE $2 OR a.content->>$1 ILIKE $2)
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $3
	`, lang, containsPattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return collectArticles(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
