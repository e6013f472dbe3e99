package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"jobscout-engine/internal/domain"
)

const (
	DefaultCapacity = 100
	DefaultMaxAge   = 7 * 24 * time.Hour
)

// StoreError is a failure while committing a batch. Dedup itself never fails.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Mirror durably records committed changes. Apply is all-or-nothing.
type Mirror interface {
	Apply(ctx context.Context, added []domain.Posting, removed []string) error
	Load(ctx context.Context) ([]domain.Posting, error)
}

// Store is the bounded, deduplicating posting collection.
//
// items is kept in insertion order; that order alone drives capacity
// eviction, independent of PostedAt. All methods are safe for concurrent use;
// a single mutex serializes writers so each batch commits atomically.
type Store struct {
	mu       sync.RWMutex
	items    []domain.Posting
	index    map[string]struct{}
	capacity int

	mirror Mirror
	log    zerolog.Logger
}

type Options struct {
	Capacity int
	Mirror   Mirror // optional
	Log      zerolog.Logger
}

func New(opts Options) *Store {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	return &Store{
		index:    make(map[string]struct{}),
		capacity: opts.Capacity,
		mirror:   opts.Mirror,
		log:      opts.Log,
	}
}

// Restore replaces the contents with what the mirror holds, then trims to capacity.
func (s *Store) Restore(ctx context.Context) (int, error) {
	if s.mirror == nil {
		return 0, nil
	}
	rows, err := s.mirror.Load(ctx)
	if err != nil {
		return 0, &StoreError{Op: "restore", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, index := dedup(nil, map[string]struct{}{}, rows)
	items, evicted := evictToCapacity(items, s.capacity)
	if len(evicted) > 0 {
		if err := s.mirror.Apply(ctx, nil, urlsOf(evicted)); err != nil {
			return 0, &StoreError{Op: "restore", Err: err}
		}
		for _, p := range evicted {
			delete(index, p.URL)
		}
	}
	s.items, s.index = items, index
	return len(s.items), nil
}

// Insert appends the postings whose URL is not yet stored, keeping batch
// order, then evicts oldest-inserted entries beyond capacity. It returns how
// many postings were new. Invalid postings are skipped.
func (s *Store) Insert(ctx context.Context, batch []domain.Posting) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]struct{}, len(s.index)+len(batch))
	for k := range s.index {
		index[k] = struct{}{}
	}
	before := len(s.items)
	items := make([]domain.Posting, before, before+len(batch))
	copy(items, s.items)

	items, index = dedup(items, index, batch)
	added := items[before:]
	n := len(added)

	items, evicted := evictToCapacity(items, s.capacity)
	for _, p := range evicted {
		delete(index, p.URL)
	}

	if s.mirror != nil && (n > 0 || len(evicted) > 0) {
		if err := s.mirror.Apply(ctx, added, urlsOf(evicted)); err != nil {
			return 0, &StoreError{Op: "insert", Err: err}
		}
	}

	s.items, s.index = items, index
	if n > 0 || len(evicted) > 0 {
		s.log.Info().Int("batch", len(batch)).Int("added", n).Int("evicted", len(evicted)).Int("size", len(items)).Msg("insert")
	}
	return n, nil
}

// SweepExpired removes postings whose PostedAt is strictly before now-maxAge.
func (s *Store) SweepExpired(ctx context.Context, now time.Time, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	cutoff := now.Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.Posting, 0, len(s.items))
	var removed []string
	for _, p := range s.items {
		if p.PostedAt.Before(cutoff) {
			removed = append(removed, p.URL)
			continue
		}
		kept = append(kept, p)
	}
	if len(removed) == 0 {
		return 0, nil
	}

	if s.mirror != nil {
		if err := s.mirror.Apply(ctx, nil, removed); err != nil {
			return 0, &StoreError{Op: "sweep", Err: err}
		}
	}

	s.items = kept
	for _, u := range removed {
		delete(s.index, u)
	}
	s.log.Info().Int("removed", len(removed)).Time("cutoff", cutoff).Int("size", len(kept)).Msg("sweep")
	return len(removed), nil
}

// All returns a copy sorted by PostedAt, newest first.
func (s *Store) All() []domain.Posting {
	return s.Query(Filter{})
}

func (s *Store) BySource(src domain.Source) []domain.Posting {
	return s.Query(Filter{Source: src})
}

// Query returns the postings f keeps, newest first.
func (s *Store) Query(f Filter) []domain.Posting {
	s.mu.RLock()
	out := make([]domain.Posting, 0, len(s.items))
	for _, p := range s.items {
		if ok, _ := f.Keep(p); ok {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// Lookup returns the stored postings whose URL is in urls, newest first.
func (s *Store) Lookup(urls []string) []domain.Posting {
	want := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		want[u] = struct{}{}
	}

	s.mu.RLock()
	out := make([]domain.Posting, 0, len(want))
	for _, p := range s.items {
		if _, ok := want[p.URL]; ok {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Capacity() int { return s.capacity }

func dedup(items []domain.Posting, index map[string]struct{}, batch []domain.Posting) ([]domain.Posting, map[string]struct{}) {
	for _, p := range batch {
		if !p.Valid() {
			continue
		}
		if _, dup := index[p.URL]; dup {
			continue
		}
		index[p.URL] = struct{}{}
		items = append(items, p)
	}
	return items, index
}

// evictToCapacity drops from the front (oldest inserted) until len <= capacity.
func evictToCapacity(items []domain.Posting, capacity int) (kept, evicted []domain.Posting) {
	if len(items) <= capacity {
		return items, nil
	}
	cut := len(items) - capacity
	evicted = append([]domain.Posting(nil), items[:cut]...)
	kept = append([]domain.Posting(nil), items[cut:]...)
	return kept, evicted
}

func sortNewestFirst(ps []domain.Posting) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].PostedAt.After(ps[j].PostedAt) })
}

func urlsOf(ps []domain.Posting) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.URL
	}
	return out
}
