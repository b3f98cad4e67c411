// Package catalog implements the engine's versioned schema/table/function
// catalog (§3.3), grounded on original_source/src/catalog_v2/{catalog.rs,
// catalog_set.go}'s locking and ordered-set semantics, restyled with the
// sync.RWMutex-wrapped-shared-resource convention this lineage uses for
// every process-wide store.
package catalog

import (
	"github.com/lychee-technology/sqlcore"
)

// Set is an ordered, name-keyed collection of entries with stable integer
// oids assigned from a per-set monotonic counter, per §3.3.
type Set[T any] struct {
	names   []string
	byName  map[string]int // name -> index into entries/oids
	entries []T
	oids    []int64
	nextOid int64
}

func NewSet[T any]() *Set[T] {
	return &Set[T]{byName: make(map[string]int)}
}

// Create inserts a new named entry, failing with ErrEntryExists if the name
// is already present. Returns the oid assigned to the entry.
func (s *Set[T]) Create(name string, entry T) (int64, error) {
	if _, exists := s.byName[name]; exists {
		return 0, sqlcore.NewEntryExistsError("catalog entry already exists: " + name)
	}
	oid := s.nextOid
	s.nextOid++
	s.byName[name] = len(s.entries)
	s.names = append(s.names, name)
	s.entries = append(s.entries, entry)
	s.oids = append(s.oids, oid)
	return oid, nil
}

// Get looks up an entry by name, failing with ErrNotFound if absent.
func (s *Set[T]) Get(name string) (T, error) {
	var zero T
	idx, ok := s.byName[name]
	if !ok {
		return zero, sqlcore.NewNotFoundError("catalog entry not found: " + name)
	}
	return s.entries[idx], nil
}

// Replace overwrites an existing entry in place, failing with ErrNotFound
// if the name is absent. The oid is preserved.
func (s *Set[T]) Replace(name string, entry T) error {
	idx, ok := s.byName[name]
	if !ok {
		return sqlcore.NewNotFoundError("catalog entry not found: " + name)
	}
	s.entries[idx] = entry
	return nil
}

// Scan yields entries matching predicate, in insertion order.
func (s *Set[T]) Scan(predicate func(name string, entry T) bool) []T {
	var out []T
	for i, name := range s.names {
		if predicate == nil || predicate(name, s.entries[i]) {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// Names returns every entry name in insertion order.
func (s *Set[T]) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// OidOf returns the oid assigned to name, or -1 if absent.
func (s *Set[T]) OidOf(name string) int64 {
	idx, ok := s.byName[name]
	if !ok {
		return -1
	}
	return s.oids[idx]
}
