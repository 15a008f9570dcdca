// Package history implements the frecency-ranked store of visited paths:
// the per-path visit statistics, the merge that reconciles two
// independently updated histories, the retention limit, and the JSON
// persistence with its shrink safety guard.
package history

import (
	"sort"

	"github.com/oxidrome/frecent/internal/frecency"
)

// Store maps absolute file paths to their visit statistics. Entries are
// shared by pointer with window-scoped views, so a mutation through
// either side is visible through the other.
//
// All mutation is expected to happen on one logical thread; the store
// itself takes no locks.
type Store struct {
	entries map[string]*Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Len returns the number of tracked paths.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get returns the entry for path, if tracked.
func (s *Store) Get(path string) (*Entry, bool) {
	e, ok := s.entries[path]
	return e, ok
}

// Put inserts an existing entry under path, sharing it by pointer.
func (s *Store) Put(path string, e *Entry) {
	s.entries[path] = e
}

// Remove drops path from the store. Removing an untracked path is a no-op.
func (s *Store) Remove(path string) {
	delete(s.entries, path)
}

// RecordVisit bumps the statistics for path at time now, creating the
// entry on first visit, and returns the (shared) entry.
func (s *Store) RecordVisit(path string, now int64) *Entry {
	e, ok := s.entries[path]
	if !ok {
		e = newEntry(now)
		s.entries[path] = e
	}
	e.LastSeen = now
	e.Inserts++
	return e
}

// Walk calls fn for every tracked path. Iteration order is unspecified.
func (s *Store) Walk(fn func(path string, e *Entry)) {
	for path, e := range s.entries {
		fn(path, e)
	}
}

// Ranked is one entry of a ranked listing.
type Ranked struct {
	Path  string
	Entry *Entry
	Score float64
}

// Rank returns every entry ordered by descending frecency score. Equal
// scores order by ascending path so listings are reproducible.
func (s *Store) Rank(now int64) []Ranked {
	out := make([]Ranked, 0, len(s.entries))
	for path, e := range s.entries {
		out = append(out, Ranked{
			Path:  path,
			Entry: e,
			Score: frecency.Score(e.LastSeen, e.Inserts, now),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Merge folds other into s. For paths present on both sides the fields
// combine commutatively (max last_seen, max inserts, min added); paths
// only in other are inserted by reference. Iterating the merger side
// keeps the cost proportional to the smaller history when s is the
// bigger one.
func (s *Store) Merge(other *Store) {
	for path, merger := range other.entries {
		if mergee, ok := s.entries[path]; ok {
			if merger.LastSeen > mergee.LastSeen {
				mergee.LastSeen = merger.LastSeen
			}
			if merger.Inserts > mergee.Inserts {
				mergee.Inserts = merger.Inserts
			}
			if merger.Added < mergee.Added {
				mergee.Added = merger.Added
			}
		} else {
			s.entries[path] = merger
		}
	}
}

// Limit returns a new store holding only the n highest-scoring entries at
// time now. The receiver is untouched; entries are shared by pointer. The
// live master store is never capped mid-session, only the persisted
// snapshot goes through here.
func (s *Store) Limit(n int, now int64) *Store {
	ranked := s.Rank(now)
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	out := NewStore()
	for _, r := range ranked[:n] {
		out.entries[r.Path] = r.Entry
	}
	return out
}

// cloneDeep returns a store with copies of every entry, sharing nothing
// with the receiver. Used by the save pipeline so merging disk content
// never mutates live entries.
func (s *Store) cloneDeep() *Store {
	out := NewStore()
	for path, e := range s.entries {
		out.entries[path] = e.clone()
	}
	return out
}
