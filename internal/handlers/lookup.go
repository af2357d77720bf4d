// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"

	"investpress/internal/cache"
	"investpress/internal/models"
	"investpress/internal/slug"
)

// lookup resolves a slug to a visible record. A cached id is only trusted
// when the record loaded by it still holds the slug and is visible;
// otherwise the slug is resolved in the database and the cache refreshed.
func lookup[T any, E interface {
	*T
	slug.Entity
}](
	ctx context.Context,
	sc *cache.SlugCache,
	table, lang, value string,
	byID func(context.Context, int64) (E, error),
	bySlug func(context.Context, string, string) (E, error),
	visible func(E) bool,
) (E, error) {
	if id, ok := sc.Get(ctx, lang, table, value); ok {
		e, err := byID(ctx, id)
		if err != nil {
			return nil, err
		}
		if e != nil && e.FieldValue(models.FieldSlug, lang) == value && visible(e) {
			return e, nil
		}
		sc.Invalidate(ctx, lang, table, value)
	}

	e, err := bySlug(ctx, lang, value)
	if err != nil || e == nil {
		return nil, err
	}
	sc.Set(ctx, lang, table, value, e.SlugOwnerID())
	return e, nil
}
