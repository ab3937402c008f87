package store

import (
	"context"
	"slices"
	"sync"

	"github.com/arborview/arborview/pkg/tree"
)

// MemoryStore is an in-memory Store for tests and single-process
// development. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []tree.FlatNode
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Rows returns a copy of the stored rows, or ErrEmptyStore when nothing
// has been stored.
func (s *MemoryStore) Rows(ctx context.Context) ([]tree.FlatNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rows == nil {
		return nil, ErrEmptyStore
	}
	return slices.Clone(s.rows), nil
}

// Put replaces the stored rows. The slice is copied; later mutation by the
// caller does not affect the store.
func (s *MemoryStore) Put(ctx context.Context, rows []tree.FlatNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = slices.Clone(rows)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
