package app

import (
	"sync"

	"warehouse/domain/core"
	"warehouse/domain/table"
)

// TableStore holds the parsed table for each dataset in memory. Tables
// are immutable after creation, so reads need no copying; the map itself
// is the only guarded state.
type TableStore struct {
	mu     sync.RWMutex
	tables map[core.DatasetID]*table.Table
}

// NewTableStore creates an empty table store
func NewTableStore() *TableStore {
	return &TableStore{tables: make(map[core.DatasetID]*table.Table)}
}

// Put registers the table for a dataset
func (s *TableStore) Put(id core.DatasetID, t *table.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[id] = t
}

// Get returns the table for a dataset, if present
func (s *TableStore) Get(id core.DatasetID) (*table.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	return t, ok
}

// Delete removes the table for a dataset
func (s *TableStore) Delete(id core.DatasetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}
