// Package storage implements the engine's in-memory append-only table
// store (§5's "shared resources" model), grounded on
// original_source/src/storage_v2/local_storage.rs. The Rust reference
// keys a single process-wide LocalStorage by DataTable (an
// IndexMap<DataTable, LocalTableStorage>, since a DataTable there is
// itself a cheap hashable handle); this engine's catalog.DataTable
// instead carries its physical storage directly as an opaque Handle
// (concretely *LocalTableStorage, assigned once at CreateTable time), so
// there is no separate table-manager map to maintain here — each table
// owns its storage outright, and that storage owns its own lock, per the
// "per-resource RWMutex" convention used throughout this codebase
// (RootCatalog, CatalogSet).
package storage

import (
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/lychee-technology/sqlcore"
)

// LocalTableStorage holds every record batch appended to a table, in
// append order. Reads and writes each take the corresponding lock for
// the duration of a single call; in Append and Batch contention surfaces
// as StorageLocked rather than blocking, matching §5's resource model,
// while NumBatches waits on a blocking RLock.
type LocalTableStorage struct {
	mu      sync.RWMutex
	batches []arrow.Record
}

// NewTableStorage allocates empty backing storage for a freshly created
// table.
func NewTableStorage() *LocalTableStorage {
	return &LocalTableStorage{}
}

// Append adds batch to the table's storage.
func (s *LocalTableStorage) Append(batch arrow.Record) error {
	if !s.mu.TryLock() {
		return sqlcore.NewStorageLockedError("table storage is write-locked")
	}
	defer s.mu.Unlock()
	s.batches = append(s.batches, batch)
	return nil
}

// Batch returns the batch at idx, or ok=false if idx is out of range.
func (s *LocalTableStorage) Batch(idx int) (arrow.Record, bool, error) {
	if !s.mu.TryRLock() {
		return nil, false, sqlcore.NewStorageLockedError("table storage is write-locked")
	}
	defer s.mu.RUnlock()
	if idx < 0 || idx >= len(s.batches) {
		return nil, false, nil
	}
	return s.batches[idx], true, nil
}

// NumBatches reports how many batches have been appended so far.
func (s *LocalTableStorage) NumBatches() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

// Reader sequentially replays a table's storage one batch at a time,
// mirroring LocalStorageReader's batch_cursor from the Rust reference.
type Reader struct {
	storage *LocalTableStorage
	cursor  int
}

// NewReader opens a fresh reader over storage, starting at batch 0.
func NewReader(storage *LocalTableStorage) *Reader {
	return &Reader{storage: storage}
}

// Next returns the next batch, or ok=false once every batch present at
// open time (or appended since) has been returned.
func (r *Reader) Next() (arrow.Record, bool, error) {
	batch, ok, err := r.storage.Batch(r.cursor)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	r.cursor++
	return batch, true, nil
}
