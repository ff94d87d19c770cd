package repository

import (
	"context"
	"sync"
	"time"

	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/pkg/metrics"
)

// MemoryStore keeps history in process memory. Entries are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]model.Calculation // oldest first
	closed bool

	retention int
	updater   *statsUpdater
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an in-memory store. The stats updater stops
// when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &MemoryStore{
		byUser:    make(map[string][]model.Calculation),
		retention: o.retention,
	}
	s.updater = startStatsUpdater(ctx, o.metricsUpdateInterval, s.Stats)
	return s
}

// Append implements Store.Append.
func (s *MemoryStore) Append(_ context.Context, c model.Calculation) error {
	if c.Anonymous() {
		return ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	entries := append(s.byUser[c.UserID], c)
	if over := len(entries) - s.retention; over > 0 {
		// copy so the dropped prefix can be collected
		entries = append([]model.Calculation(nil), entries[over:]...)
	}
	s.byUser[c.UserID] = entries
	metrics.RecordHistoryAppend()
	return nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context, userID string, limit int) ([]model.Calculation, error) {
	start := time.Now()
	defer func() {
		metrics.RecordHistoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	entries := s.byUser[userID]
	n := min(limit, len(entries))
	out := make([]model.Calculation, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// Stats implements Store.Stats.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Users: len(s.byUser)}
	for _, entries := range s.byUser {
		st.Entries += len(entries)
	}
	return st, nil
}

// Close stops the stats updater. Later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.updater.stop()
	return nil
}
