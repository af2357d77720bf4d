// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduler runs slug gap-filling on a cron schedule, so records
// that missed a slug (a language enabled later, an import that bypassed
// the stores) gain one without an operator running the repair command.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"investpress/internal/slug"
)

// DefaultRunTimeout bounds a single scheduled repair run.
const DefaultRunTimeout = 30 * time.Minute

// Repairer fills missing slugs across all sluggable models.
type Repairer interface {
	RepairAll(ctx context.Context, batchSize int) (slug.Report, error)
}

// Scheduler triggers slug repair runs.
type Scheduler struct {
	cron      *cron.Cron
	repairer  Repairer
	batchSize int
	timeout   time.Duration

	// OnRepaired, when set, is called after a run that generated slugs.
	OnRepaired func(ctx context.Context, report slug.Report)
}

// New creates a scheduler. Runs never overlap: a tick that fires while the
// previous run is still going is skipped.
func New(repairer Repairer, batchSize int) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		repairer:  repairer,
		batchSize: batchSize,
		timeout:   DefaultRunTimeout,
	}
}

// Start registers the repair job on spec (standard five-field cron syntax
// or a descriptor such as "@hourly") and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule slug repair %q: %w", spec, err)
	}
	s.cron.Start()
	slog.Info("slug repair scheduled", "schedule", spec, "batch_size", s.batchSize)
	return nil
}

// Stop stops the scheduler and waits for a running repair to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

// RunOnce performs one repair run. Failures are logged; the next tick
// retries from the start.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.repairer.RepairAll(ctx, s.batchSize)
	if err != nil {
		slog.Error("scheduled slug repair failed",
			"run_id", report.RunID,
			"models_done", len(report.Models),
			"error", err,
		)
		return
	}

	slog.Info("scheduled slug repair finished",
		"run_id", report.RunID,
		"generated", report.Generated(),
		"duration", time.Since(start).String(),
	)
	if report.Generated() > 0 && s.OnRepaired != nil {
		s.OnRepaired(ctx, report)
	}
}

// cronLogger routes the cron library's logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
