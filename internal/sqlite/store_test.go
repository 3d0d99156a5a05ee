package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/addressbook/pkg/types"
)

func newRecord(t *testing.T, name string, phones ...string) *types.Record {
	t.Helper()
	r, err := types.NewRecord(name)
	require.NoError(t, err)
	for _, p := range phones {
		r.AddPhone(p)
	}
	return r
}

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.db")
	s := NewStore(path)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestLoadMissingDatabaseReportsNoPriorData(t *testing.T) {
	s, path := newStore(t)

	records, err := s.Load()
	assert.ErrorIs(t, err, types.ErrNoPriorData)
	assert.Nil(t, records)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "Load must not create the database")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := newStore(t)

	alice := newRecord(t, "alice", "111", "222", "111")
	bd, err := types.NewBirthday(2000, time.February, 29)
	require.NoError(t, err)
	alice.SetBirthday(bd)
	bob := newRecord(t, "bob", "333")
	carol := newRecord(t, "carol")

	require.NoError(t, s.Save([]*types.Record{carol, alice, bob}))
	require.NoError(t, s.Close())

	reopened := NewStore(path)
	defer reopened.Close()
	got, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "carol", got[0].Name.Value(), "saved order is kept")
	assert.Equal(t, []string{}, got[0].Phones)

	assert.Equal(t, alice.RecordID, got[1].RecordID)
	assert.Equal(t, "alice", got[1].Name.Value())
	assert.Equal(t, []string{"111", "222", "111"}, got[1].Phones)
	assert.Equal(t, "2000-02-29", got[1].Birthday.String())

	assert.Equal(t, "bob", got[2].Name.Value())
	assert.Equal(t, []string{"333"}, got[2].Phones)
	assert.False(t, got[2].Birthday.IsSet())
}

func TestSaveReplacesEverything(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.Save([]*types.Record{newRecord(t, "alice", "1"), newRecord(t, "bob", "2")}))
	require.NoError(t, s.Save([]*types.Record{newRecord(t, "carol", "3")}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "carol", got[0].Name.Value())
	assert.Equal(t, []string{"3"}, got[0].Phones)
}

func TestSaveEmptyBookThenLoad(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.Save(nil))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveDuplicateNamesFailsAtomically(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.Save([]*types.Record{newRecord(t, "alice", "1")}))

	err := s.Save([]*types.Record{newRecord(t, "bob"), newRecord(t, "bob")})
	require.Error(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1, "failed save leaves previous content")
	assert.Equal(t, "alice", got[0].Name.Value())
}

func TestLoadNonDatabaseFileFails(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a sqlite database\n", 64)), 0o644))

	got, err := s.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNoPriorData)
	assert.Nil(t, got)
}

func TestClosedStore(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.Save(nil))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Load()
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, s.Save(nil), types.ErrStoreClosed)
}
