// Package store persists the flat node rows the hierarchy is built from.
//
// Two backends are provided: [MemoryStore] for tests and single-process
// development, and [MongoStore] for deployments backed by MongoDB. Both
// speak the same [Store] interface, so callers never depend on a concrete
// backend.
//
// Seeding is an explicit, idempotent operation: [Seeder.Seed] takes the
// store as an injected dependency and reports whether it actually wrote
// anything, instead of relying on process-wide "already initialized" state.
package store

import (
	"context"
	"errors"

	"github.com/arborview/arborview/pkg/tree"
)

// ErrEmptyStore is returned by [Store.Rows] implementations when the store
// holds no rows at all. Callers typically respond by seeding.
var ErrEmptyStore = errors.New("store contains no rows")

// Store is the persistence interface for flat hierarchy rows.
type Store interface {
	// Rows returns every stored row. Order is not significant; the
	// hierarchy build does not depend on it. Returns ErrEmptyStore when
	// nothing has been stored yet.
	Rows(ctx context.Context) ([]tree.FlatNode, error)

	// Put replaces the stored rows with the given set.
	Put(ctx context.Context, rows []tree.FlatNode) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// Seeder populates an empty store with a sample dataset exactly once.
type Seeder struct {
	store Store
	rows  []tree.FlatNode
}

// NewSeeder creates a seeder for the given store. If rows is nil, the
// built-in sample dataset is used.
func NewSeeder(s Store, rows []tree.FlatNode) *Seeder {
	if rows == nil {
		rows = SampleRows()
	}
	return &Seeder{store: s, rows: rows}
}

// Seed writes the seed rows if and only if the store is still empty.
// It returns true when seeding occurred and false when the store already
// held data. Calling Seed repeatedly is safe; only the first call on an
// empty store writes.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	_, err := s.store.Rows(ctx)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrEmptyStore):
		if err := s.store.Put(ctx, s.rows); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// SampleRows returns the built-in sample hierarchy: a small engineering
// organization, three levels deep, exercising every depth color and the
// popup descriptions.
func SampleRows() []tree.FlatNode {
	return []tree.FlatNode{
		{ID: "Acme", Description: "Acme Corporation", ParentID: ""},
		{ID: "Engineering", Description: "Builds the product", ParentID: "Acme"},
		{ID: "Sales", Description: "Sells the product", ParentID: "Acme"},
		{ID: "Platform", Description: "Infrastructure and tooling", ParentID: "Engineering"},
		{ID: "Product", Description: "User-facing features", ParentID: "Engineering"},
		{ID: "EMEA", Description: "Europe, Middle East, Africa", ParentID: "Sales"},
		{ID: "Americas", Description: "North and South America", ParentID: "Sales"},
		{ID: "Storage", Description: "Databases and caching", ParentID: "Platform"},
		{ID: "Networking", Description: "Service mesh and ingress", ParentID: "Platform"},
		{ID: "Mobile", Description: "iOS and Android clients", ParentID: "Product"},
		{ID: "Web", Description: "Browser clients", ParentID: "Product"},
	}
}
