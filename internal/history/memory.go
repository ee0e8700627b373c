// Package history persists finished workout runs.
package history

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/repflow/internal/domain"
	"github.com/hammamikhairi/repflow/internal/logger"
)

// Compile-time interface check.
var _ domain.HistoryStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory history store. Safe for concurrent access.
// Useful for tests and for running without a data directory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.SessionRecord
	log     *logger.Logger
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.SessionRecord),
		log:     log,
	}
}

// Save persists a run record. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, rec *domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving run %s (exercises=%d, completed=%v)", rec.ID, rec.Exercises, rec.Completed)
	clone := *rec
	clone.Workout = rec.Workout.Clone()
	s.records[rec.ID] = &clone
	return nil
}

// Get retrieves a run record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		s.log.Debug("run not found: %s", id)
		return nil, domain.ErrNotFound
	}
	clone := *rec
	clone.Workout = rec.Workout.Clone()
	return &clone, nil
}

// List returns the most recent runs, newest first. A limit of zero or
// less returns everything.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.SessionRecord, 0, len(s.records))
	for _, rec := range s.records {
		clone := *rec
		clone.Workout = rec.Workout.Clone()
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	s.log.Debug("listing runs, count=%d", len(out))
	return out, nil
}
