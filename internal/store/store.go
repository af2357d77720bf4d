// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the PostgreSQL-backed stores for the site's records.
// Every save of a sluggable record runs through slug.Allocator inside a
// single transaction, so a slug is never persisted apart from its record.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"investpress/internal/slug"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Constraints on the slugs table. The value constraint guards per-scope
// slug uniqueness; the owner constraint allows one slug per record slot.
const (
	slugValueConstraint = "slugs_scope_value_key"
	slugOwnerConstraint = "slugs_scope_owner_key"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction, committing if fn returns nil and
// rolling back otherwise.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", mapConflict(err))
	}
	return nil
}

// mapConflict turns a unique violation on either slugs constraint into
// slug.ErrUniquenessConflict: another writer took the value, or filled the
// slot first. Both are resolved by retrying against fresh state. Other errors
// are returned unchanged.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
		(pgErr.ConstraintName == slugValueConstraint || pgErr.ConstraintName == slugOwnerConstraint) {
		return fmt.Errorf("%w: %s", slug.ErrUniquenessConflict, pgErr.Detail)
	}
	return err
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// persist saves e through the allocator. write stores the record row and
// returns its id; the slug fields of m are then written for every
// configured language. Slots generated by this save are inserted, so a slug
// another writer assigned meanwhile makes the attempt conflict instead of
// being replaced; other values are upserted as deliberate edits. The whole
// attempt is one transaction and is retried by the allocator on slug
// conflicts.
func persist(ctx context.Context, db *sql.DB, alloc *slug.Allocator, m slug.Model, e slug.Entity, write func(tx *sql.Tx) (int64, error)) (int64, error) {
	var id int64
	err := alloc.Save(ctx, m, e, func(ctx context.Context, assign slug.Assign) error {
		return inTx(ctx, db, func(tx *sql.Tx) error {
			sq := slugQueries{q: tx}
			filled, err := assign(sq)
			if err != nil {
				return err
			}
			generated := make(map[slotKey]bool, len(filled))
			for _, s := range filled {
				generated[slotKey{s.Field, s.Language}] = true
			}

			id, err = write(tx)
			if err != nil {
				return err
			}

			for _, pair := range m.Fields {
				for _, lang := range alloc.Languages() {
					value := e.FieldValue(pair.Slug, lang)
					if value == "" {
						continue
					}
					scope := m.Scope(pair.Slug, lang)
					if generated[slotKey{pair.Slug, lang}] {
						err = sq.insert(ctx, scope, id, value)
					} else {
						err = sq.upsert(ctx, scope, id, value)
					}
					if err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// slotKey identifies a slug field in one language.
type slotKey struct {
	field, lang string
}

// remove deletes a record row and its slugs in one transaction.
func remove(ctx context.Context, db *sql.DB, table string, id int64) error {
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if err := (slugQueries{q: tx}).deleteOwner(ctx, table, id); err != nil {
			return err
		}
		// table is one of the models package constants, never user input.
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
		return nil
	})
}
