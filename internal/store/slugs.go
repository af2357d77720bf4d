// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"investpress/internal/slug"
)

// slugQueries reads and writes the slugs table. Bound to a *sql.Tx it is the
// slug.Checker used during a save, so existence checks see the rows the
// same transaction has already written.
type slugQueries struct {
	q DBTX
}

// SlugExists implements slug.Checker.
func (s slugQueries) SlugExists(ctx context.Context, scope slug.Scope, value string, excludeID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM slugs
			WHERE table_name = $1 AND field = $2 AND language = $3
			  AND value = $4 AND entity_id <> $5
		)
	`, scope.Table, scope.Field, scope.Language, value, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug exists: %w", err)
	}
	return exists, nil
}

// StoredSlugs implements slug.StoredReader.
func (s slugQueries) StoredSlugs(ctx context.Context, m slug.Model, id int64) ([]slug.Slot, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT field, language, value FROM slugs
		WHERE table_name = $1 AND entity_id = $2
		ORDER BY field, language
	`, m.Table, id)
	if err != nil {
		return nil, fmt.Errorf("load stored slugs: %w", err)
	}
	defer rows.Close()

	var slots []slug.Slot
	for rows.Next() {
		var sl slug.Slot
		if err := rows.Scan(&sl.Field, &sl.Language, &sl.Value); err != nil {
			return nil, fmt.Errorf("scan stored slug: %w", err)
		}
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// upsert stores value as the slug of entity id in scope. A deliberate edit
// replaces the previous value; a value held by another record fails with
// slug.ErrUniquenessConflict.
func (s slugQueries) upsert(ctx context.Context, scope slug.Scope, id int64, value string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO slugs (table_name, field, language, entity_id, value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT slugs_scope_owner_key
		DO UPDATE SET value = EXCLUDED.value
		WHERE slugs.value <> EXCLUDED.value
	`, scope.Table, scope.Field, scope.Language, id, value)
	if err != nil {
		return fmt.Errorf("write slug %s: %w", scope, mapConflict(err))
	}
	return nil
}

// insert adds a slug for an empty slot. Used for generated slugs, which
// never replace an existing value; a slot filled concurrently fails with
// slug.ErrUniquenessConflict.
func (s slugQueries) insert(ctx context.Context, scope slug.Scope, id int64, value string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO slugs (table_name, field, language, entity_id, value)
		VALUES ($1, $2, $3, $4, $5)
	`, scope.Table, scope.Field, scope.Language, id, value)
	if err != nil {
		return fmt.Errorf("insert slug %s: %w", scope, mapConflict(err))
	}
	return nil
}

// deleteOwner removes every slug of a record.
func (s slugQueries) deleteOwner(ctx context.Context, table string, id int64) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM slugs WHERE table_name = $1 AND entity_id = $2`, table, id)
	if err != nil {
		return fmt.Errorf("delete slugs: %w", err)
	}
	return nil
}

// slugColumn returns a select expression aggregating the slug field of the
// row aliased alias in table into a {lang: value} jsonb object. table and
// field come from the models package constants.
func slugColumn(table, field, alias string) string {
	return `COALESCE((SELECT jsonb_object_agg(sl.language, sl.value) FROM slugs sl
		WHERE sl.table_name = '` + table + `' AND sl.field = '` + field + `'
		  AND sl.entity_id = ` + alias + `.id), '{}'::jsonb)`
}

// slugJoin returns a join clause matching rows of alias whose slug field in
// the language bound to $langArg equals the value bound to $valueArg.
func slugJoin(table, field, alias string, langArg, valueArg int) string {
	return fmt.Sprintf(`JOIN slugs sj ON sj.table_name = '%s' AND sj.field = '%s'
		AND sj.entity_id = %s.id AND sj.language = $%d AND sj.value = $%d`,
		table, field, alias, langArg, valueArg)
}
