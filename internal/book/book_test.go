package book

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/addressbook/internal/jsonl"
	"github.com/mesh-intelligence/addressbook/internal/logger"
	"github.com/mesh-intelligence/addressbook/internal/sqlite"
	"github.com/mesh-intelligence/addressbook/pkg/types"
)

// memStore is an in-memory types.Store with injectable failures.
type memStore struct {
	saved   []*types.Record
	saves   int
	hasData bool
	saveErr error
	loadErr error
}

func (m *memStore) Load() ([]*types.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.hasData {
		return nil, types.ErrNoPriorData
	}
	out := make([]*types.Record, 0, len(m.saved))
	for _, r := range m.saved {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (m *memStore) Save(records []*types.Record) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = make([]*types.Record, 0, len(records))
	for _, r := range records {
		m.saved = append(m.saved, r.Clone())
	}
	m.hasData = true
	return nil
}

func (m *memStore) Path() string { return "mem" }
func (m *memStore) Close() error { return nil }

func newRecord(t *testing.T, name string, phones ...string) *types.Record {
	t.Helper()
	r, err := types.NewRecord(name)
	require.NoError(t, err)
	for _, p := range phones {
		r.AddPhone(p)
	}
	return r
}

func names(b *AddressBook) []string {
	var out []string
	for _, r := range b.Records() {
		out = append(out, r.Name.Value())
	}
	return out
}

func TestAddRecordPersists(t *testing.T) {
	store := &memStore{}
	b := New(store)

	require.NoError(t, b.AddRecord(newRecord(t, "alice", "12345")))

	assert.Equal(t, 1, store.saves)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "alice", store.saved[0].Name.Value())

	got, ok := b.Get("alice")
	require.True(t, ok)
	assert.Equal(t, []string{"12345"}, got.Phones)
}

func TestAddRecordOverwritesInPlace(t *testing.T) {
	b := New(&memStore{})

	require.NoError(t, b.AddRecord(newRecord(t, "alice", "111")))
	require.NoError(t, b.AddRecord(newRecord(t, "bob", "222")))
	require.NoError(t, b.AddRecord(newRecord(t, "alice", "333")))

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"alice", "bob"}, names(b), "overwrite keeps position")
	got, _ := b.Get("alice")
	assert.Equal(t, []string{"333"}, got.Phones, "old phones are discarded")
}

func TestAddRecordNil(t *testing.T) {
	store := &memStore{}
	assert.ErrorIs(t, New(store).AddRecord(nil), types.ErrNilRecord)
	assert.Equal(t, 0, store.saves)
}

func TestAddRecordWithoutName(t *testing.T) {
	store := &memStore{}
	b := New(store)

	assert.ErrorIs(t, b.AddRecord(&types.Record{}), types.ErrInvalidName)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, store.saves)
}

func TestRemoveRecord(t *testing.T) {
	store := &memStore{}
	b := New(store)
	alice := newRecord(t, "alice", "111")
	require.NoError(t, b.AddRecord(alice))

	err := b.RemoveRecord(newRecord(t, "bob"))
	assert.ErrorIs(t, err, types.ErrContactNotFound)
	assert.Equal(t, 1, store.saves, "failed remove does not save")

	require.NoError(t, b.RemoveRecord(alice))
	_, ok := b.Get("alice")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
	assert.Empty(t, store.saved)

	assert.ErrorIs(t, b.RemoveByName("alice"), types.ErrContactNotFound)
}

func TestEditRecordName(t *testing.T) {
	store := &memStore{}
	b := New(store)
	alice := newRecord(t, "alice", "111", "222")
	require.NoError(t, b.AddRecord(alice))
	require.NoError(t, b.AddRecord(newRecord(t, "carol", "333")))

	require.NoError(t, b.EditRecordName("alice", "bob"))

	_, ok := b.Get("alice")
	assert.False(t, ok)
	bob, ok := b.Get("bob")
	require.True(t, ok)
	assert.Same(t, alice, bob)
	assert.Equal(t, "bob", bob.Name.Value(), "record name follows the key")
	assert.Equal(t, []string{"111", "222"}, bob.Phones)
	assert.Equal(t, []string{"carol", "bob"}, names(b), "renamed record moves to the end")
	assert.Equal(t, "bob", store.saved[1].Name.Value())
}

func TestEditRecordNameOverwritesExisting(t *testing.T) {
	b := New(&memStore{})
	require.NoError(t, b.AddRecord(newRecord(t, "alice", "111")))
	require.NoError(t, b.AddRecord(newRecord(t, "bob", "222")))

	require.NoError(t, b.EditRecordName("alice", "bob"))

	assert.Equal(t, 1, b.Len())
	bob, _ := b.Get("bob")
	assert.Equal(t, []string{"111"}, bob.Phones)
}

func TestEditRecordNameFailures(t *testing.T) {
	store := &memStore{}
	b := New(store)
	require.NoError(t, b.AddRecord(newRecord(t, "alice", "111")))

	assert.ErrorIs(t, b.EditRecordName("zed", "bob"), types.ErrContactNotFound)
	assert.ErrorIs(t, b.EditRecordName("alice", ""), types.ErrInvalidName)

	assert.Equal(t, []string{"alice"}, names(b))
	alice, _ := b.Get("alice")
	assert.Equal(t, "alice", alice.Name.Value())
	assert.Equal(t, 1, store.saves)
}

func TestTouch(t *testing.T) {
	store := &memStore{}
	b := New(store)
	require.NoError(t, b.AddRecord(newRecord(t, "alice", "111")))

	r, _ := b.Get("alice")
	r.SetPhones("999")
	require.NoError(t, b.Touch("alice"))
	assert.Equal(t, []string{"999"}, store.saved[0].Phones)

	assert.ErrorIs(t, b.Touch("bob"), types.ErrContactNotFound)
}

func TestSaveFailureDoesNotAbortMutation(t *testing.T) {
	var logs bytes.Buffer
	store := &memStore{saveErr: errors.New("disk full")}
	b := New(store, WithLogger(logger.New(&logs, false)))

	require.NoError(t, b.AddRecord(newRecord(t, "alice", "111")))

	_, ok := b.Get("alice")
	assert.True(t, ok, "mutation stays in memory")
	assert.Contains(t, logs.String(), "book.save_failed")
	assert.Contains(t, logs.String(), "disk full")

	err := b.SaveToDisk()
	assert.ErrorContains(t, err, "disk full")
}

func TestLoadFromDiskNoPriorData(t *testing.T) {
	b := New(&memStore{})
	require.NoError(t, b.AddRecord(newRecord(t, "stale")))
	b.store = &memStore{}

	err := b.LoadFromDisk()
	assert.ErrorIs(t, err, types.ErrNoPriorData)
	assert.Equal(t, 0, b.Len())
}

func TestLoadFromDiskFailureEmptiesBook(t *testing.T) {
	var logs bytes.Buffer
	store := &memStore{}
	b := New(store, WithLogger(logger.New(&logs, false)))
	require.NoError(t, b.AddRecord(newRecord(t, "alice")))

	store.loadErr = errors.New("boom")
	err := b.LoadFromDisk()
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNoPriorData)
	assert.Equal(t, 0, b.Len())
	assert.Contains(t, logs.String(), "book.load_failed")
}

func TestRoundTripThroughStores(t *testing.T) {
	stores := map[string]func(dir string) types.Store{
		"jsonl":  func(dir string) types.Store { return jsonl.NewStore(filepath.Join(dir, "book.jsonl")) },
		"sqlite": func(dir string) types.Store { return sqlite.NewStore(filepath.Join(dir, "book.db")) },
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			s1 := open(dir)
			defer s1.Close()
			b := New(s1)
			alice := newRecord(t, "alice", "111", "222")
			bd, err := types.NewBirthday(1990, time.May, 17)
			require.NoError(t, err)
			alice.SetBirthday(bd)
			require.NoError(t, b.AddRecord(alice))
			require.NoError(t, b.AddRecord(newRecord(t, "bob", "333")))
			require.NoError(t, b.SaveToDisk())
			want := b.Records()

			s2 := open(dir)
			defer s2.Close()
			loaded := New(s2)
			require.NoError(t, loaded.LoadFromDisk())

			got := loaded.Records()
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].RecordID, got[i].RecordID)
				assert.Equal(t, want[i].Name.Value(), got[i].Name.Value())
				assert.Equal(t, want[i].Phones, got[i].Phones)
				assert.Equal(t, want[i].Birthday.String(), got[i].Birthday.String())
			}
		})
	}
}
