package slug

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
)

// record is an in-memory Entity keyed by field and language.
type record struct {
	id     int64
	fields map[string]map[string]string
}

func newRecord(source string, values map[string]string) *record {
	return &record{fields: map[string]map[string]string{source: values}}
}

func (r *record) SlugOwnerID() int64 { return r.id }

func (r *record) FieldValue(field, lang string) string {
	return r.fields[field][lang]
}

func (r *record) SetFieldValue(field, lang, value string) {
	if value == "" {
		delete(r.fields[field], lang)
		return
	}
	if r.fields == nil {
		r.fields = map[string]map[string]string{}
	}
	if r.fields[field] == nil {
		r.fields[field] = map[string]string{}
	}
	r.fields[field][lang] = value
}

func (r *record) clone() *record {
	c := &record{id: r.id, fields: make(map[string]map[string]string, len(r.fields))}
	for f, v := range r.fields {
		c.fields[f] = maps.Clone(v)
	}
	return c
}

// memStore is a committed-state store with the same visibility rules as a
// read-committed database: checks made outside a transaction only see
// committed rows, and commit rejects duplicate slugs.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string][]*record

	// lookupErr, when set, fails every existence query.
	lookupErr error
	// failBatch makes the n-th repair transaction (1-based) fail.
	failBatch int
	batches   int
	// lookups counts existence queries.
	lookups int
}

func newMemStore() *memStore {
	return &memStore{rows: map[string][]*record{}}
}

func (s *memStore) SlugExists(_ context.Context, scope Scope, value string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	return s.holds(scope, value, func(id int64) bool { return id != excludeID }), nil
}

// StoredSlugs returns the committed slugs of record id.
func (s *memStore) StoredSlugs(_ context.Context, m Model, id int64) ([]Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	var out []Slot
	for _, r := range s.rows[m.Table] {
		if r.id != id {
			continue
		}
		for _, pair := range m.Fields {
			for lang, value := range r.fields[pair.Slug] {
				out = append(out, Slot{Field: pair.Slug, Language: lang, Value: value})
			}
		}
	}
	return out, nil
}

// holds reports whether a committed record accepted by keep holds value.
// Callers hold s.mu.
func (s *memStore) holds(scope Scope, value string, keep func(id int64) bool) bool {
	for _, r := range s.rows[scope.Table] {
		if keep(r.id) && r.fields[scope.Field][scope.Language] == value {
			return true
		}
	}
	return false
}

// commit inserts or replaces e, rejecting slug values held by other records.
func (s *memStore) commit(m Model, e *record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(m, []*record{e}); err != nil {
		return err
	}
	s.apply(m, e)
	return nil
}

// checkUnique is the storage-level unique constraint. Callers hold s.mu.
func (s *memStore) checkUnique(m Model, pending []*record) error {
	pendingIDs := map[int64]bool{}
	for _, p := range pending {
		if p.id != 0 {
			pendingIDs[p.id] = true
		}
	}
	seen := map[Scope]map[string]bool{}
	for _, p := range pending {
		for _, pair := range m.Fields {
			for lang, value := range p.fields[pair.Slug] {
				scope := m.Scope(pair.Slug, lang)
				if seen[scope][value] {
					return ErrUniquenessConflict
				}
				if seen[scope] == nil {
					seen[scope] = map[string]bool{}
				}
				seen[scope][value] = true
				if s.holds(scope, value, func(id int64) bool { return !pendingIDs[id] && id != p.id }) {
					return ErrUniquenessConflict
				}
			}
		}
	}
	return nil
}

// apply writes e into committed state. Callers hold s.mu.
func (s *memStore) apply(m Model, e *record) {
	if e.id == 0 {
		s.nextID++
		e.id = s.nextID
		s.rows[m.Table] = append(s.rows[m.Table], e.clone())
		return
	}
	for i, r := range s.rows[m.Table] {
		if r.id == e.id {
			s.rows[m.Table][i] = e.clone()
			return
		}
	}
}

// attempt returns an Attempt that assigns slugs and commits e, calling
// beforeCommit (if set) between the two.
func (s *memStore) attempt(m Model, e *record, beforeCommit func()) Attempt {
	return func(ctx context.Context, assign Assign) error {
		if _, err := assign(s); err != nil {
			return err
		}
		if beforeCommit != nil {
			beforeCommit()
		}
		return s.commit(m, e)
	}
}

// get returns a copy of the committed record with the given id.
func (s *memStore) get(m Model, id int64) *record {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows[m.Table] {
		if r.id == id {
			return r.clone()
		}
	}
	return nil
}

func (s *memStore) CountRecords(_ context.Context, m Model) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[m.Table]), nil
}

var errBatchFailed = errors.New("batch failed")

func (s *memStore) InRepairTx(ctx context.Context, fn func(tx RepairTx) error) error {
	s.mu.Lock()
	s.batches++
	fail := s.failBatch != 0 && s.batches == s.failBatch
	s.mu.Unlock()

	tx := &memTx{s: s}
	if err := fn(tx); err != nil {
		return err
	}
	if fail {
		return errBatchFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(tx.model, tx.staged); err != nil {
		return err
	}
	for _, e := range tx.staged {
		s.apply(tx.model, e)
	}
	return nil
}

// memTx stages repair writes until commit and sees its own staged slugs.
type memTx struct {
	s      *memStore
	model  Model
	staged []*record
}

func (tx *memTx) SlugExists(ctx context.Context, scope Scope, value string, excludeID int64) (bool, error) {
	for _, e := range tx.staged {
		if e.id != excludeID && e.fields[scope.Field][scope.Language] == value {
			return true, nil
		}
	}
	return tx.s.SlugExists(ctx, scope, value, excludeID)
}

func (tx *memTx) LoadBatch(_ context.Context, m Model, afterID int64, limit int) ([]Entity, error) {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	tx.model = m

	rows := slices.Clone(tx.s.rows[m.Table])
	slices.SortFunc(rows, func(a, b *record) int { return int(a.id - b.id) })

	var out []Entity
	for _, r := range rows {
		if r.id <= afterID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, r.clone())
	}
	return out, nil
}

func (tx *memTx) WriteSlots(_ context.Context, m Model, e Entity, slots []Slot) error {
	tx.staged = append(tx.staged, e.(*record))
	return nil
}
