package ledger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

// FileStore keeps one append-only CSV per owner and kind:
// <dir>/<owner>/<kind>.csv.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ store.Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the ledger file for owner and kind.
func (s *FileStore) Path(owner string, kind model.Kind) string {
	return filepath.Join(s.dir, owner, string(kind)+".csv")
}

// Create appends rec to the owner's ledger, writing the header on first use.
func (s *FileStore) Create(ctx context.Context, who session.Identity, rec model.Record) (model.Record, error) {
	if err := ctx.Err(); err != nil {
		return model.Record{}, err
	}
	if err := store.Authorize(who, rec.Owner); err != nil {
		return model.Record{}, err
	}
	if err := store.CheckOwner(who.UserID); err != nil {
		return model.Record{}, err
	}
	if !rec.Kind.Valid() {
		return model.Record{}, fmt.Errorf("record %s: invalid kind %q", rec.ID, rec.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(who.UserID, rec.Kind)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.Record{}, fmt.Errorf("creating ledger dir: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return model.Record{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries := []model.Entry{rec.Entry()}
	if isNew {
		err = WriteEntries(f, entries)
	} else {
		err = AppendEntries(f, entries)
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("appending to %s: %w", path, err)
	}
	return rec, nil
}

// List returns every entry of the given kind for the owner. A missing
// ledger file is an empty list.
func (s *FileStore) List(ctx context.Context, who session.Identity, kind model.Kind) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.Authorize(who, ""); err != nil {
		return nil, err
	}
	if err := store.CheckOwner(who.UserID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path(who.UserID, kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
	}
	return entries, nil
}
