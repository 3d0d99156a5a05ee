// Package sqlite implements the SQLite address book store. The whole book is
// replaced inside one transaction on every save; record order is kept in an
// ordinal column and phone order in a position column.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// Store keeps the address book in a single SQLite database file. The
// database is opened lazily on the first Load of an existing file or the
// first Save.
type Store struct {
	mu     sync.Mutex
	path   string
	db     *sql.DB
	closed bool
}

var _ types.Store = (*Store)(nil)

// NewStore returns a store for the database at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Load returns every record ordered by insertion ordinal.
// Returns types.ErrNoPriorData if the database file does not exist.
func (s *Store) Load() ([]*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, types.ErrStoreClosed
	}

	if s.db == nil {
		if _, err := os.Stat(s.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, types.ErrNoPriorData
			}
			return nil, fmt.Errorf("stat %s: %w", s.path, err)
		}
	}

	ctx := context.Background()
	if err := s.openLocked(ctx); err != nil {
		return nil, err
	}

	records, err := s.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.loadPhones(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) loadRecords(ctx context.Context) ([]*types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT record_id, name, birthday FROM records ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []*types.Record
	for rows.Next() {
		var id, name string
		var birthday sql.NullString
		if err := rows.Scan(&id, &name, &birthday); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec, err := toRecord(id, name, birthday)
		if err != nil {
			return nil, fmt.Errorf("%w: record %q: %v", types.ErrCorruptData, name, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func (s *Store) loadPhones(ctx context.Context, records []*types.Record) error {
	byID := make(map[string]*types.Record, len(records))
	for _, r := range records {
		byID[r.RecordID] = r
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT record_id, number FROM phones ORDER BY record_id, position")
	if err != nil {
		return fmt.Errorf("querying phones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, number string
		if err := rows.Scan(&id, &number); err != nil {
			return fmt.Errorf("scanning phone: %w", err)
		}
		if r, ok := byID[id]; ok {
			r.Phones = append(r.Phones, number)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating phones: %w", err)
	}
	return nil
}

// Save replaces every stored record with records inside one transaction.
func (s *Store) Save(records []*types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}

	ctx := context.Background()
	if err := s.openLocked(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM phones"); err != nil {
		return fmt.Errorf("clearing phones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	insertRecord, err := tx.PrepareContext(ctx,
		"INSERT INTO records (record_id, name, ordinal, birthday) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer insertRecord.Close()

	insertPhone, err := tx.PrepareContext(ctx,
		"INSERT INTO phones (record_id, position, number) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing phone insert: %w", err)
	}
	defer insertPhone.Close()

	for i, rec := range records {
		if rec == nil {
			return types.ErrNilRecord
		}
		var birthday sql.NullString
		if rec.Birthday.IsSet() {
			birthday = sql.NullString{String: rec.Birthday.String(), Valid: true}
		}
		if _, err := insertRecord.ExecContext(ctx, rec.RecordID, rec.Name.Value(), i, birthday); err != nil {
			return fmt.Errorf("inserting record %q: %w", rec.Name.Value(), err)
		}
		for pos, number := range rec.Phones {
			if _, err := insertPhone.ExecContext(ctx, rec.RecordID, pos, number); err != nil {
				return fmt.Errorf("inserting phone for %q: %w", rec.Name.Value(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close releases the database connection. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// openLocked opens the database and applies migrations if not already open.
// The caller must hold s.mu.
func (s *Store) openLocked(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

func toRecord(id, name string, birthday sql.NullString) (*types.Record, error) {
	n, err := types.NewName(name)
	if err != nil {
		return nil, err
	}
	var bd types.Birthday
	if birthday.Valid && birthday.String != "" {
		t, err := time.Parse(time.DateOnly, birthday.String)
		if err != nil {
			return nil, types.ErrInvalidBirthday
		}
		bd = types.BirthdayOf(t)
	}
	return &types.Record{
		RecordID: id,
		Name:     n,
		Phones:   []string{},
		Birthday: bd,
	}, nil
}
