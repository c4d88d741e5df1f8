// Package memory is an in-process store for tests and demos.
package memory

import (
	"context"
	"sync"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

type key struct {
	owner string
	kind  model.Kind
}

// Store keeps entries per owner and kind.
type Store struct {
	mu      sync.Mutex
	entries map[key][]model.Entry
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[key][]model.Entry)}
}

// Seed stores raw entries as-is, including malformed ones.
func (s *Store) Seed(owner string, kind model.Kind, entries ...model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{owner, kind}
	s.entries[k] = append(s.entries[k], entries...)
}

// Create stores rec under its owner.
func (s *Store) Create(ctx context.Context, who session.Identity, rec model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	if err := store.Authorize(who, rec.Owner); err != nil {
		return model.Record{}, err
	}
	s.Seed(who.UserID, rec.Kind, rec.Entry())
	return rec, nil
}

// List returns a copy of the owner's entries of kind.
func (s *Store) List(ctx context.Context, who session.Identity, kind model.Kind) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Authorize(who, ""); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Entry(nil), s.entries[key{who.UserID, kind}]...), nil
}
