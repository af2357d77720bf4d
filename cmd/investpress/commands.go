// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"investpress/internal/cache"
	"investpress/internal/config"
	"investpress/internal/database"
	"investpress/internal/handlers"
	"investpress/internal/middleware"
	"investpress/internal/models"
	"investpress/internal/router"
	"investpress/internal/scheduler"
	"investpress/internal/slug"
	"investpress/internal/storage"
	"investpress/internal/store"
)

// Search requests allowed per client IP and window.
const (
	searchRateLimit  = 30
	searchRateWindow = time.Minute
)

// openDB connects to PostgreSQL and applies pending migrations.
func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// connectCache connects to Valkey when configured. The service runs without
// a cache, so a failed connection is logged and yields nil.
func connectCache(ctx context.Context, cfg *config.Config) *redis.Client {
	if !cfg.CacheEnabled() {
		slog.Info("valkey not configured, slug cache disabled")
		return nil
	}
	client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, slug cache disabled", "error", err)
		return nil
	}
	return client
}

func slugCache(client *redis.Client) *cache.SlugCache {
	if client == nil {
		return nil
	}
	return cache.NewSlugCache(client, cache.DefaultSlugTTL)
}

func migrate(cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("migrations applied")
	return nil
}

func seed(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return store.Seed(ctx, db, slug.NewAllocator(cfg.Slug()))
}

// repairOptions are the flags of the repair-slugs command.
type repairOptions struct {
	model string
	batch int
}

func parseRepairFlags(args []string, defaultBatch int, out io.Writer) (repairOptions, error) {
	var opts repairOptions
	fs := flag.NewFlagSet("repair-slugs", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.model, "model", "", "repair only this model (default: all)")
	fs.IntVar(&opts.batch, "batch", defaultBatch, "records per transaction")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.batch < 1 {
		return opts, fmt.Errorf("-batch must be positive, got %d", opts.batch)
	}
	return opts, nil
}

func newRepairer(db *sql.DB, cfg *config.Config) *slug.Repairer {
	alloc := slug.NewAllocator(cfg.Slug())
	return slug.NewRepairer(alloc, store.NewRepairStore(db), models.SlugModels(), slug.DefaultProgressEvery)
}

// repairSlugs fills slug gaps and prints the report as JSON.
func repairSlugs(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	opts, err := parseRepairFlags(args, cfg.RepairBatchSize, out)
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	r := newRepairer(db, cfg)
	var report slug.Report
	if opts.model != "" {
		mr, err := r.Repair(ctx, opts.model, opts.batch)
		if errors.Is(err, slug.ErrUnknownModel) {
			return fmt.Errorf("%w (known: %s)", err, modelNames())
		}
		report = slug.Report{RunID: uuid.New(), Models: []slug.ModelReport{mr}}
		if err != nil {
			return err
		}
	} else {
		report, err = r.RepairAll(ctx, opts.batch)
		if err != nil {
			return err
		}
	}

	if report.Generated() > 0 {
		if client := connectCache(ctx, cfg); client != nil {
			slugCache(client).InvalidateAll(ctx)
			client.Close()
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func modelNames() []string {
	var names []string
	for _, m := range models.SlugModels() {
		names = append(names, m.Name)
	}
	return names
}

// serve runs the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"languages", cfg.Languages,
	)

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	alloc := slug.NewAllocator(cfg.Slug())

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := store.Seed(ctx, db, alloc); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	client := connectCache(ctx, cfg)
	if client != nil {
		defer client.Close()
	}
	sc := slugCache(client)

	content := &handlers.Content{
		Countries:       store.NewCountryStore(db, alloc),
		Services:        store.NewServiceStore(db, alloc),
		Categories:      store.NewCategoryStore(db, alloc),
		Articles:        store.NewArticleStore(db, alloc),
		Landings:        store.NewLandingPageStore(db, alloc),
		Investments:     store.NewInvestmentStore(db),
		Cache:           sc,
		DefaultLanguage: cfg.DefaultLanguage(),
	}

	media, err := storage.New(cfg.Storage())
	if err != nil {
		return fmt.Errorf("initialize media storage: %w", err)
	}
	if media != nil {
		if err := media.Ping(ctx); err != nil {
			slog.Warn("media bucket unreachable, serving public URLs anyway", "error", err)
		}
		slog.Info("media storage configured", "endpoint", cfg.S3Endpoint, "bucket", media.Bucket())
		content.Media = media
	}

	r := router.New(router.Options{
		Content:       content,
		Languages:     cfg.Languages,
		DB:            db,
		SearchLimiter: middleware.NewRateLimiter(client, "search", searchRateLimit, searchRateWindow),
	})

	if cfg.RepairSchedule != "" {
		sched := scheduler.New(newRepairer(db, cfg), cfg.RepairBatchSize)
		sched.OnRepaired = func(ctx context.Context, _ slug.Report) { sc.InvalidateAll(ctx) }
		if err := sched.Start(cfg.RepairSchedule); err != nil {
			return err
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		slog.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}
