package jsonl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

var errMalformedLine = errors.New("malformed JSON line")

// recordLine is the on-disk shape of one record.
type recordLine struct {
	RecordID string   `json:"record_id"`
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday,omitempty"`
}

// Store keeps the address book in a single JSONL file.
type Store struct {
	path   string
	closed bool
}

var _ types.Store = (*Store)(nil)

// NewStore returns a store reading and writing path. The file is not touched
// until Load or Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads every record from the file in line order.
// Returns types.ErrNoPriorData if the file does not exist and an error
// wrapping types.ErrCorruptData if any line cannot be decoded into a valid
// record.
func (s *Store) Load() ([]*types.Record, error) {
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	lines, err := readLines(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.ErrNoPriorData
		}
		if errors.Is(err, errMalformedLine) {
			return nil, fmt.Errorf("%w: %s: %v", types.ErrCorruptData, s.path, err)
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	records := make([]*types.Record, 0, len(lines))
	for i, raw := range lines {
		var rl recordLine
		if err := json.Unmarshal(raw, &rl); err != nil {
			return nil, fmt.Errorf("%w: %s: record %d: %v", types.ErrCorruptData, s.path, i+1, err)
		}
		rec, err := rl.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: record %d: %v", types.ErrCorruptData, s.path, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save rewrites the file with records, one per line, in order.
func (s *Store) Save(records []*types.Record) error {
	if s.closed {
		return types.ErrStoreClosed
	}

	lines := make([]json.RawMessage, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			return types.ErrNilRecord
		}
		b, err := json.Marshal(fromRecord(rec))
		if err != nil {
			return fmt.Errorf("encoding record %q: %w", rec.Name.Value(), err)
		}
		lines = append(lines, b)
	}
	return writeLines(s.path, lines)
}

// Close marks the store closed. Idempotent.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

func fromRecord(r *types.Record) recordLine {
	phones := r.Phones
	if phones == nil {
		phones = []string{}
	}
	return recordLine{
		RecordID: r.RecordID,
		Name:     r.Name.Value(),
		Phones:   phones,
		Birthday: r.Birthday.String(),
	}
}

func (rl recordLine) toRecord() (*types.Record, error) {
	name, err := types.NewName(rl.Name)
	if err != nil {
		return nil, err
	}

	var bd types.Birthday
	if rl.Birthday != "" {
		t, err := time.Parse(time.DateOnly, rl.Birthday)
		if err != nil {
			return nil, fmt.Errorf("birthday %q: %w", rl.Birthday, types.ErrInvalidBirthday)
		}
		bd = types.BirthdayOf(t)
	}

	phones := rl.Phones
	if phones == nil {
		phones = []string{}
	}
	return &types.Record{
		RecordID: rl.RecordID,
		Name:     name,
		Phones:   phones,
		Birthday: bd,
	}, nil
}
