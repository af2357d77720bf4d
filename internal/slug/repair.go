// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// DefaultBatchSize is the number of records per repair transaction.
	DefaultBatchSize = 500

	// DefaultProgressEvery is the progress reporting cadence in records.
	DefaultProgressEvery = 50
)

// ErrUnknownModel is returned when repair is asked for a model that is not
// in the configuration table.
var ErrUnknownModel = errors.New("unknown sluggable model")

// RepairTx is the storage view of one repair batch transaction.
type RepairTx interface {
	Checker

	// LoadBatch returns up to limit records of m whose primary key is
	// greater than afterID, in primary-key order. Implementations lock
	// only the returned rows.
	LoadBatch(ctx context.Context, m Model, afterID int64, limit int) ([]Entity, error)

	// WriteSlots persists slots newly assigned to e.
	WriteSlots(ctx context.Context, m Model, e Entity, slots []Slot) error
}

// RepairStore opens repair transactions.
type RepairStore interface {
	// CountRecords returns the number of records of m.
	CountRecords(ctx context.Context, m Model) (int, error)

	// InRepairTx runs fn in one transaction, committing if it returns nil.
	InRepairTx(ctx context.Context, fn func(tx RepairTx) error) error
}

// Progress is reported while a model is being repaired.
type Progress struct {
	Model     string
	Processed int
	Total     int
}

// ModelReport summarizes the repair of one model.
type ModelReport struct {
	Model     string `json:"model"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Generated int    `json:"generated"`
	Updated   int    `json:"updated"`
	Complete  int    `json:"complete"`
	Batches   int    `json:"batches"`
}

// Report summarizes a repair run over one or more models.
type Report struct {
	RunID  uuid.UUID     `json:"run_id"`
	Models []ModelReport `json:"models"`
}

// Generated returns the number of slugs generated across all models.
func (r Report) Generated() int {
	var n int
	for _, m := range r.Models {
		n += m.Generated
	}
	return n
}

// Repairer fills slug gaps in existing records, batch by batch.
type Repairer struct {
	alloc         *Allocator
	store         RepairStore
	models        []Model
	progressEvery int

	// OnProgress, when set, is called at every progress tick.
	OnProgress func(Progress)
}

// NewRepairer creates a Repairer over the given models, in repair order.
func NewRepairer(alloc *Allocator, store RepairStore, models []Model, progressEvery int) *Repairer {
	if progressEvery <= 0 {
		progressEvery = DefaultProgressEvery
	}
	return &Repairer{
		alloc:         alloc,
		store:         store,
		models:        models,
		progressEvery: progressEvery,
	}
}

// Model looks up a configured model by name.
func (r *Repairer) Model(name string) (Model, bool) {
	for _, m := range r.models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// RepairAll repairs every configured model in order. It stops at the first
// model that fails; the returned report covers the models finished so far.
func (r *Repairer) RepairAll(ctx context.Context, batchSize int) (Report, error) {
	report := Report{RunID: uuid.New()}
	slog.Info("slug repair started", "run_id", report.RunID, "models", len(r.models))

	for _, m := range r.models {
		mr, err := r.repair(ctx, m, batchSize)
		report.Models = append(report.Models, mr)
		if err != nil {
			return report, err
		}
	}

	slog.Info("slug repair finished", "run_id", report.RunID, "generated", report.Generated())
	return report, nil
}

// Repair fills missing slugs for every record of the named model.
func (r *Repairer) Repair(ctx context.Context, modelName string, batchSize int) (ModelReport, error) {
	m, ok := r.Model(modelName)
	if !ok {
		return ModelReport{Model: modelName}, fmt.Errorf("repair %q: %w", modelName, ErrUnknownModel)
	}
	return r.repair(ctx, m, batchSize)
}

// batchResult is what one committed batch contributed.
type batchResult struct {
	processed int
	generated int
	updated   int
	lastID    int64
}

func (r *Repairer) repair(ctx context.Context, m Model, batchSize int) (ModelReport, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	report := ModelReport{Model: m.Name}

	total, err := r.store.CountRecords(ctx, m)
	if err != nil {
		return report, fmt.Errorf("repair %s: count records: %w", m.Name, err)
	}
	report.Total = total
	if total == 0 {
		slog.Info("no records to repair", "model", m.Name)
		return report, nil
	}
	slog.Info("repairing slugs", "model", m.Name, "total", total)

	var afterID int64
	for {
		res, err := r.repairBatch(ctx, m, afterID, batchSize)
		if err != nil {
			return report, fmt.Errorf("repair %s batch after id %d: %w", m.Name, afterID, err)
		}
		if res.processed == 0 {
			break
		}

		prev := report.Processed
		report.Batches++
		report.Processed += res.processed
		report.Generated += res.generated
		report.Updated += res.updated
		report.Complete += res.processed - res.updated
		r.progress(m, prev, report.Processed, total)

		afterID = res.lastID
		if res.processed < batchSize {
			break
		}
	}

	slog.Info("finished repairing slugs",
		"model", m.Name,
		"processed", report.Processed,
		"generated", report.Generated,
		"complete", report.Complete,
	)
	return report, nil
}

// repairBatch runs one batch transaction, retrying it from a fresh read when
// a concurrent writer claims a slug first.
func (r *Repairer) repairBatch(ctx context.Context, m Model, afterID int64, limit int) (batchResult, error) {
	var (
		res     batchResult
		lastErr error
	)
	for n := 1; n <= r.alloc.maxAttempts; n++ {
		res = batchResult{}
		err := r.store.InRepairTx(ctx, func(tx RepairTx) error {
			entities, err := tx.LoadBatch(ctx, m, afterID, limit)
			if err != nil {
				return fmt.Errorf("load batch: %w", err)
			}
			for _, e := range entities {
				slots, err := r.alloc.Fill(ctx, tx, m, e)
				if err != nil {
					return err
				}
				if len(slots) > 0 {
					if err := tx.WriteSlots(ctx, m, e, slots); err != nil {
						return err
					}
					res.generated += len(slots)
					res.updated++
				}
				res.processed++
				res.lastID = e.SlugOwnerID()
			}
			return nil
		})
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrUniquenessConflict) {
			return batchResult{}, err
		}
		lastErr = err
		slog.Warn("slug conflict during repair, retrying batch",
			"model", m.Name,
			"after_id", afterID,
			"attempt", n,
			"error", err,
		)
	}
	return batchResult{}, fmt.Errorf("%w: after %d attempts: %w", ErrAllocationFailed, r.alloc.maxAttempts, lastErr)
}

// progress emits a tick for every multiple of progressEvery crossed between
// prev and cur.
func (r *Repairer) progress(m Model, prev, cur, total int) {
	for tick := (prev/r.progressEvery + 1) * r.progressEvery; tick <= cur; tick += r.progressEvery {
		slog.Info("repair progress", "model", m.Name, "processed", tick, "total", total)
		if r.OnProgress != nil {
			r.OnProgress(Progress{Model: m.Name, Processed: tick, Total: total})
		}
	}
}
