// Package sqlite stores records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/tally-dev/tally/internal/log"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/session"
	"github.com/tally-dev/tally/internal/store"
)

// Store is a store.Store over a single SQLite file.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates the database directory if needed, migrates the schema and
// returns a ready Store.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("sqlite store ready", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath)

	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const insertSQL = `INSERT INTO transactions
	(id, owner, kind, title, amount, tag, date, payment_method, description)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Create inserts rec.
func (s *Store) Create(ctx context.Context, who session.Identity, rec model.Record) (model.Record, error) {
	if err := store.Authorize(who, rec.Owner); err != nil {
		return model.Record{}, err
	}
	e := rec.Entry()
	_, err := s.db.ExecContext(ctx, insertSQL,
		e.ID, who.UserID, string(rec.Kind), e.Title, string(e.Amount), e.Tag,
		string(e.Date), e.PaymentMethod, e.Description)
	if err != nil {
		return model.Record{}, fmt.Errorf("insert transaction %s: %w", rec.ID, err)
	}
	s.logger.Debug("transaction saved",
		log.FieldOperation, log.OpCreate, log.FieldEntryID, rec.ID, log.FieldKind, string(rec.Kind))
	return rec, nil
}

const listSQL = `SELECT id, owner, title, amount, tag, kind, date, payment_method, description
	FROM transactions
	WHERE owner = ? AND kind = ?
	ORDER BY date, rowid`

// List returns the owner's entries of kind in date order.
func (s *Store) List(ctx context.Context, who session.Identity, kind model.Kind) ([]model.Entry, error) {
	if err := store.Authorize(who, ""); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, listSQL, who.UserID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		var (
			e            model.Entry
			amount, date string
			kindCol      string
		)
		if err := rows.Scan(&e.ID, &e.User, &e.Title, &amount, &e.Tag, &kindCol, &date, &e.PaymentMethod, &e.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		e.Amount = model.FlexString(amount)
		e.Date = model.FlexString(date)
		e.Type = model.Kind(kindCol).Label()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return entries, nil
}
