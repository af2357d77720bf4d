// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateKeyPrefix is the Valkey key prefix for rate limit counters.
const rateKeyPrefix = "ratelimit:"

// localWindow is an in-process fixed window counter.
type localWindow struct {
	start time.Time
	count int
}

// RateLimiter limits requests per client IP in fixed windows. Counters live
// in Valkey so every instance shares them; without a client, or while
// Valkey is failing, an in-process counter is used instead.
type RateLimiter struct {
	client *redis.Client
	name   string
	limit  int
	window time.Duration

	mu    sync.Mutex
	local map[string]*localWindow
	now   func() time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
// name separates the counters of different limiters; client may be nil.
func NewRateLimiter(client *redis.Client, name string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		name:   name,
		limit:  limit,
		window: window,
		local:  make(map[string]*localWindow),
		now:    time.Now,
	}
}

// allow reports whether key is within the limit for the current window.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	if rl.client != nil {
		n, err := rl.incr(ctx, key)
		if err == nil {
			return n <= int64(rl.limit)
		}
		slog.Warn("rate limit counter unavailable, using local window", "limiter", rl.name, "error", err)
	}
	return rl.allowLocal(key)
}

// incr bumps the Valkey counter of key's current window.
func (rl *RateLimiter) incr(ctx context.Context, key string) (int64, error) {
	slot := rl.now().UnixNano() / int64(rl.window)
	rkey := rateKeyPrefix + rl.name + ":" + key + ":" + strconv.FormatInt(slot, 10)

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, rkey)
	pipe.Expire(ctx, rkey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (rl *RateLimiter) allowLocal(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.local) > 10000 {
		for k, w := range rl.local {
			if now.Sub(w.start) >= rl.window {
				delete(rl.local, k)
			}
		}
	}

	w, ok := rl.local[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.local[key] = &localWindow{start: now, count: 1}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Middleware returns an HTTP middleware that rate-limits by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.Context(), clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
