// Package feed owns the in-memory CSV feed data: parsing, storage and
// file watching. The store keeps one immutable snapshot per feed name
// and replaces it wholesale, so a reader always sees a complete
// generation of a file and never a mix of old and new rows.
package feed

import "sync/atomic"

// Row is one CSV line keyed by column name.
type Row map[string]string

// snapshot is an immutable generation of a feed. Rows must not be
// mutated after the snapshot is published.
type snapshot struct {
	rows []Row
	gen  uint64
}

// Store maps fixed feed names to their current snapshot. The name set is
// closed at construction; Replace and Get on unknown names report false.
// All methods are safe for concurrent use.
type Store struct {
	feeds map[string]*atomic.Pointer[snapshot]
}

// NewStore creates a store for the given feed names. Every feed starts
// unloaded; Get reports false until the first Replace.
func NewStore(names []string) *Store {
	feeds := make(map[string]*atomic.Pointer[snapshot], len(names))
	for _, n := range names {
		feeds[n] = new(atomic.Pointer[snapshot])
	}
	return &Store{feeds: feeds}
}

// Replace atomically swaps in a new generation for the feed and returns
// the new generation number. Reports false for unknown names.
func (s *Store) Replace(name string, rows []Row) (uint64, bool) {
	p, ok := s.feeds[name]
	if !ok {
		return 0, false
	}
	for {
		old := p.Load()
		next := &snapshot{rows: rows, gen: 1}
		if old != nil {
			next.gen = old.gen + 1
		}
		if p.CompareAndSwap(old, next) {
			return next.gen, true
		}
	}
}

// Get returns the current rows and generation for the feed. Reports
// false when the name is unknown or the feed has not been loaded yet.
// Callers must treat the returned slice as read-only.
func (s *Store) Get(name string) ([]Row, uint64, bool) {
	p, ok := s.feeds[name]
	if !ok {
		return nil, 0, false
	}
	snap := p.Load()
	if snap == nil {
		return nil, 0, false
	}
	return snap.rows, snap.gen, true
}

// Names returns the known feed names.
func (s *Store) Names() []string {
	out := make([]string, 0, len(s.feeds))
	for n := range s.feeds {
		out = append(out, n)
	}
	return out
}
