// Package book implements the AddressBook: an insertion-ordered mapping from
// contact name to Record that saves its whole content through a types.Store
// after every mutation.
package book

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/addressbook/internal/logger"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// AddressBook maps contact names to records. A key always equals its
// record's Name value. Iteration follows insertion order; overwriting an
// existing name keeps its position, renaming moves the record to the end.
type AddressBook struct {
	store   types.Store
	log     *slog.Logger
	records map[string]*types.Record
	order   []string
}

// Option configures an AddressBook.
type Option func(*AddressBook)

// WithLogger sets the logger used for persistence reports.
func WithLogger(l *slog.Logger) Option {
	return func(b *AddressBook) {
		if l != nil {
			b.log = l
		}
	}
}

// New returns an empty address book persisted through store.
func New(store types.Store, opts ...Option) *AddressBook {
	b := &AddressBook{
		store:   store,
		log:     logger.L(),
		records: make(map[string]*types.Record),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the persisted file path.
func (b *AddressBook) Path() string { return b.store.Path() }

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.order) }

// Get returns the record stored under name.
func (b *AddressBook) Get(name string) (*types.Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Records returns the records in insertion order. The slice is a copy; the
// records are shared.
func (b *AddressBook) Records() []*types.Record {
	out := make([]*types.Record, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.records[name])
	}
	return out
}

// AddRecord stores r under its name, silently replacing any record already
// there, and saves the book. A record without a name is rejected with
// types.ErrInvalidName.
func (b *AddressBook) AddRecord(r *types.Record) error {
	if r == nil {
		return types.ErrNilRecord
	}
	if r.Name.Value() == "" {
		return types.ErrInvalidName
	}
	r.EnsureID()
	b.put(r)
	b.persist("add", r.Name.Value())
	return nil
}

// Touch saves the book after a record returned by Get was mutated in place.
func (b *AddressBook) Touch(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %s", types.ErrContactNotFound, name)
	}
	b.persist("update", name)
	return nil
}

// RemoveRecord deletes the record stored under r's name and saves the book.
// Returns an error wrapping types.ErrContactNotFound if no such record exists.
func (b *AddressBook) RemoveRecord(r *types.Record) error {
	if r == nil {
		return types.ErrNilRecord
	}
	return b.RemoveByName(r.Name.Value())
}

// RemoveByName deletes the record stored under name and saves the book.
// Returns an error wrapping types.ErrContactNotFound if no such record exists.
func (b *AddressBook) RemoveByName(name string) error {
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %s", types.ErrContactNotFound, name)
	}
	b.delete(name)
	b.persist("remove", name)
	return nil
}

// EditRecordName moves the record stored under oldName to newName and
// updates the record's own name. A record already stored under newName is
// replaced silently. Returns an error wrapping types.ErrContactNotFound if
// oldName is absent, or types.ErrInvalidName if newName is empty; in both
// cases nothing changes.
func (b *AddressBook) EditRecordName(oldName, newName string) error {
	r, ok := b.records[oldName]
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrContactNotFound, oldName)
	}
	if err := r.Name.Set(newName); err != nil {
		return err
	}
	b.delete(oldName)
	b.delete(newName)
	b.put(r)
	b.persist("rename", newName)
	return nil
}

// SaveToDisk writes the whole book through the store. A failure is logged
// and returned; the in-memory book is unchanged either way.
func (b *AddressBook) SaveToDisk() error {
	records := b.Records()
	if err := b.store.Save(records); err != nil {
		b.log.Error("book.save_failed", "path", b.store.Path(), "err", err)
		return fmt.Errorf("save %s: %w", b.store.Path(), err)
	}
	b.log.Debug("book.saved", "path", b.store.Path(), "records", len(records))
	return nil
}

// LoadFromDisk replaces the in-memory book with the store's content.
//
// If nothing has been saved yet the book is emptied and types.ErrNoPriorData
// is returned; callers treat that as informational. Any other failure also
// empties the book, is logged, and is returned.
func (b *AddressBook) LoadFromDisk() error {
	b.reset()

	records, err := b.store.Load()
	if err != nil {
		if errors.Is(err, types.ErrNoPriorData) {
			b.log.Info("book.no_prior_data", "path", b.store.Path())
			return types.ErrNoPriorData
		}
		b.log.Error("book.load_failed", "path", b.store.Path(), "err", err)
		return fmt.Errorf("load %s: %w", b.store.Path(), err)
	}

	for _, r := range records {
		r.EnsureID()
		b.put(r)
	}
	b.log.Info("book.loaded", "path", b.store.Path(), "records", len(b.order))
	return nil
}

// persist saves after a mutation. Save failures are reported by SaveToDisk
// and never undo the mutation.
func (b *AddressBook) persist(op, name string) {
	if err := b.SaveToDisk(); err != nil {
		b.log.Warn("book.mutation_not_persisted", "op", op, "name", name)
	}
}

func (b *AddressBook) put(r *types.Record) {
	name := r.Name.Value()
	if _, exists := b.records[name]; !exists {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

func (b *AddressBook) delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

func (b *AddressBook) reset() {
	b.records = make(map[string]*types.Record)
	b.order = nil
}
