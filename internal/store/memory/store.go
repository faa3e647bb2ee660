// Package memory provides an in-memory event store for development and
// testing. It mirrors the Postgres store's upsert semantics exactly.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/JakeFAU/events-aggregator/internal/dedup"
	"github.com/JakeFAU/events-aggregator/internal/event"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Store holds canonical events keyed by identity.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[dedup.Key]*event.Event
}

// New constructs an empty Store.
func New() *Store {
	return &Store{rows: make(map[dedup.Key]*event.Event)}
}

// UpsertBatch applies the merge-on-conflict policy per event: unseen
// identity keys insert a new row, collisions union the sources into the
// stored row, and subsets leave the row untouched. Non-key fields keep
// their first-inserted values.
func (s *Store) UpsertBatch(_ context.Context, events []event.Event) (event.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result event.UpsertResult
	for _, e := range events {
		if strings.TrimSpace(e.Title) == "" {
			result.Errors = append(result.Errors, event.UpsertError{Title: e.Title, Err: "title is required"})
			continue
		}
		if len(e.Sources) == 0 {
			result.Errors = append(result.Errors, event.UpsertError{Title: e.Title, Err: "sources must not be empty"})
			continue
		}
		key := dedup.For(e)
		existing, ok := s.rows[key]
		if !ok {
			s.nextID++
			row := e
			row.ID = s.nextID
			row.Sources = append([]string(nil), e.Sources...)
			s.rows[key] = &row
			result.Inserted++
			continue
		}
		merged, changed := event.MergeSources(existing.Sources, e.Sources)
		if !changed {
			result.Skipped++
			continue
		}
		existing.Sources = merged
		result.Merged++
	}
	return result, nil
}

// List returns stored events ordered by occurs_at descending (absent
// times last), then newest row first. A missing limit defaults to 100;
// anything above 1000 is clamped to 1000.
func (s *Store) List(_ context.Context, q event.ListQuery) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	out := make([]event.Event, 0, len(s.rows))
	for _, row := range s.rows {
		if q.Source != "" && !hasSource(row.Sources, q.Source) {
			continue
		}
		cp := *row
		cp.Sources = append([]string(nil), row.Sources...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].OccursAt, out[j].OccursAt
		if a != b {
			if a == "" {
				return false
			}
			if b == "" {
				return true
			}
			return a > b
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func hasSource(sources []string, want string) bool {
	for _, s := range sources {
		if s == want {
			return true
		}
	}
	return false
}
