// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"investpress/internal/models"
	"investpress/internal/slug"
)

// RepairStore implements slug.RepairStore on PostgreSQL.
type RepairStore struct {
	db *sql.DB
}

// NewRepairStore creates a new RepairStore.
func NewRepairStore(db *sql.DB) *RepairStore {
	return &RepairStore{db: db}
}

// CountRecords returns the number of rows in the table of m.
func (s *RepairStore) CountRecords(ctx context.Context, m slug.Model) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+pgx.Identifier{m.Table}.Sanitize()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.Table, err)
	}
	return n, nil
}

// InRepairTx runs fn in one transaction.
func (s *RepairStore) InRepairTx(ctx context.Context, fn func(tx slug.RepairTx) error) error {
	return inTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(repairTx{slugQueries: slugQueries{q: tx}, tx: tx})
	})
}

// repairTx is one repair batch. Its existence checks run on the batch
// transaction, so slugs written earlier in the batch count as taken.
type repairTx struct {
	slugQueries
	tx *sql.Tx
}

// LoadBatch locks and returns the next records of m after afterID, with
// their source fields and the slugs they already hold.
func (t repairTx) LoadBatch(ctx context.Context, m slug.Model, afterID int64, limit int) ([]slug.Entity, error) {
	cols := make([]string, 0, len(m.Fields)+1)
	cols = append(cols, "id")
	for _, pair := range m.Fields {
		cols = append(cols, pgx.Identifier{pair.Source}.Sanitize())
	}

	rows, err := t.tx.QueryContext(ctx, `
		SELECT `+strings.Join(cols, ", ")+` FROM `+pgx.Identifier{m.Table}.Sanitize()+`
		WHERE id > $1
		ORDER BY id
		LIMIT $2
		FOR UPDATE
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", m.Table, err)
	}
	defer rows.Close()

	var (
		records []*models.Record
		byID    = map[int64]*models.Record{}
	)
	for rows.Next() {
		var id int64
		sources := make([]models.Localized, len(m.Fields))
		dest := []any{&id}
		for i := range sources {
			dest = append(dest, &sources[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", m.Table, err)
		}

		rec := models.NewRecord(id)
		for i, pair := range m.Fields {
			rec.Fields[pair.Source] = sources[i]
		}
		records = append(records, rec)
		byID[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	lastID := records[len(records)-1].ID
	if err := t.loadSlugs(ctx, m.Table, afterID, lastID, byID); err != nil {
		return nil, err
	}

	entities := make([]slug.Entity, len(records))
	for i, rec := range records {
		entities[i] = rec
	}
	return entities, nil
}

func (t repairTx) loadSlugs(ctx context.Context, table string, afterID, lastID int64, byID map[int64]*models.Record) error {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT entity_id, field, language, value FROM slugs
		WHERE table_name = $1 AND entity_id > $2 AND entity_id <= $3
	`, table, afterID, lastID)
	if err != nil {
		return fmt.Errorf("select slugs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                     int64
			field, language, value string
		)
		if err := rows.Scan(&id, &field, &language, &value); err != nil {
			return fmt.Errorf("scan slug: %w", err)
		}
		if rec, ok := byID[id]; ok {
			rec.SetFieldValue(field, language, value)
		}
	}
	return rows.Err()
}

// WriteSlots inserts the slots newly assigned to e.
func (t repairTx) WriteSlots(ctx context.Context, m slug.Model, e slug.Entity, slots []slug.Slot) error {
	for _, s := range slots {
		if err := t.insert(ctx, m.Scope(s.Field, s.Language), e.SlugOwnerID(), s.Value); err != nil {
			return err
		}
	}
	return nil
}
