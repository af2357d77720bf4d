// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain of the public
// content API. Every content route lives under a supported language prefix.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"investpress/internal/handlers"
	"investpress/internal/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the router.
type Options struct {
	Content   *handlers.Content
	Languages []string

	// DB is checked by /health; nil skips the check.
	DB Pinger

	// SearchLimiter throttles /search; nil disables it.
	SearchLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.APIHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	r.Get("/health", healthHandler(opts.DB))

	c := opts.Content
	r.Route("/{lang}", func(r chi.Router) {
		r.Use(middleware.Language(opts.Languages))

		r.Get("/", c.Home)
		r.Get("/countries", c.ListCountries)
		r.Get("/countries/{slug}", c.ShowCountry)
		r.Get("/services", c.ListServices)
		r.Get("/services/{slug}", c.ShowService)
		r.Get("/objects/{id}", c.ShowObject)
		r.Get("/articles/{slug}", c.ShowArticle)
		r.Get("/landing/{slug}", c.ShowLanding)
		r.Get("/categories/{slug}/articles", c.CategoryArticles)

		r.Group(func(r chi.Router) {
			if opts.SearchLimiter != nil {
				r.Use(opts.SearchLimiter.Middleware)
			}
			r.Get("/search", c.Search)
		})
	})

	return r
}

// healthHandler reports liveness, and database reachability when db is set.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Warn("health check: database unreachable", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
