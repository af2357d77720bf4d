// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// slugs.go caches slug to record id lookups in Valkey. Entries are hints:
// callers load the record by id and must confirm it still carries the slug,
// falling back to the database otherwise.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// slugKeyPrefix is the Valkey key prefix for slug lookups.
	slugKeyPrefix = "slug:"

	// DefaultSlugTTL is how long a slug lookup stays cached.
	DefaultSlugTTL = 10 * time.Minute
)

// SlugCache maps (language, table, slug) to a record id. A nil *SlugCache
// is valid and never hits.
type SlugCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSlugCache creates a slug cache backed by the given Valkey client.
func NewSlugCache(client *redis.Client, ttl time.Duration) *SlugCache {
	if ttl == 0 {
		ttl = DefaultSlugTTL
	}
	return &SlugCache{client: client, ttl: ttl}
}

// SlugKey returns the cache key for a slug in one language of one table.
func SlugKey(lang, table, value string) string {
	return slugKeyPrefix + lang + ":" + table + ":" + value
}

// Get returns the cached record id for a slug.
func (c *SlugCache) Get(ctx context.Context, lang, table, value string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	key := SlugKey(lang, table, value)
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		slog.Warn("slug cache get error", "key", key, "error", err)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		slog.Warn("slug cache holds a malformed id", "key", key, "value", raw)
		return 0, false
	}
	slog.Debug("slug cache hit", "key", key)
	return id, true
}

// Set records that a slug resolves to id.
func (c *SlugCache) Set(ctx context.Context, lang, table, value string, id int64) {
	if c == nil {
		return
	}
	key := SlugKey(lang, table, value)
	if err := c.client.Set(ctx, key, strconv.FormatInt(id, 10), c.ttl).Err(); err != nil {
		slog.Warn("slug cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single slug lookup.
func (c *SlugCache) Invalidate(ctx context.Context, lang, table, value string) {
	if c == nil {
		return
	}
	key := SlugKey(lang, table, value)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("slug cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateAll removes every slug lookup by scanning for the prefix.
// Used after a repair run, which can assign slugs to many records at once.
func (c *SlugCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, slugKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("slug cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("slug cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("slug cache cleared", "deleted", deleted)
	}
}
