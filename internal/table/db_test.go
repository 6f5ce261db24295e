package table

import (
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"

	"github.com/roaminroe/mailtable/internal/store"
)

// buildStore writes the given entries into a fresh badger store and closes
// it, leaving it ready for a read-only open.
func buildStore(t *testing.T, entries map[string]string) string {
	dir := t.TempDir()

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	backend, err := store.NewBadgerBackend(opts)
	require.NoError(t, err)

	for key, value := range entries {
		require.NoError(t, backend.Put([]byte(key), []byte(value)))
	}
	require.NoError(t, backend.Close())

	return dir
}

func newDBTable(t *testing.T, entries map[string]string) (Handle, *Table) {
	dir := buildStore(t, entries)

	tbl, err := New("db", "users", dir)
	require.NoError(t, err)
	require.NoError(t, tbl.Config())

	handle, err := tbl.Open()
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })

	return handle, tbl
}

func TestDBLookup(t *testing.T) {
	handle, _ := newDBTable(t, map[string]string{
		"alice": "alice:s3cret",
		"bob":   "bob:hunter2",
	})

	rec, found, err := handle.Lookup("alice", ServiceCredentials)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, &Credentials{Username: "alice", Password: "s3cret"}, rec)

	rec, found, err = handle.Lookup("carol", ServiceCredentials)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, rec)
}

func TestDBLookupDecodeError(t *testing.T) {
	handle, _ := newDBTable(t, map[string]string{"alice": "nocolon"})

	rec, found, err := handle.Lookup("alice", ServiceCredentials)
	require.ErrorIs(t, err, ErrDecode)
	require.False(t, found)
	require.Nil(t, rec)
}

func TestDBLookupAlias(t *testing.T) {
	handle, _ := newDBTable(t, map[string]string{
		"postmaster": "root, admin@example.org",
	})

	rec, found, err := handle.Lookup("postmaster", ServiceAlias)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, rec.(*AliasExpansion).Nodes, 2)
}

func TestDBCompare(t *testing.T) {
	handle, _ := newDBTable(t, map[string]string{
		"alice": "x",
		"bob":   "x",
	})

	ok, err := handle.Compare("bob", ServiceCredentials, func(key, entryKey string) bool {
		return key == entryKey
	})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = handle.Compare("carol", ServiceCredentials, func(key, entryKey string) bool {
		return key == entryKey
	})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDBCompareStopsAtFirstMatch(t *testing.T) {
	// sorted-key scan via the map backend makes call order deterministic
	mem := store.NewMapBackend()
	require.NoError(t, mem.Put([]byte("a"), []byte("x")))
	require.NoError(t, mem.Put([]byte("b"), []byte("x")))
	require.NoError(t, mem.Put([]byte("c"), []byte("x")))

	handle := &dbHandle{db: mem}
	calls := 0
	ok, err := handle.Compare("b", ServiceCredentials, func(key, entryKey string) bool {
		calls++
		return key == entryKey
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, calls)
}

func TestDBConfigAndUpdateAreNoops(t *testing.T) {
	_, tbl := newDBTable(t, map[string]string{"alice": "alice:s3cret"})

	require.NoError(t, tbl.Config())
	require.NoError(t, tbl.Update("ignored"))
}

func TestDBOpenMissingStore(t *testing.T) {
	tbl, err := New("db", "users", "/nonexistent/store/path")
	require.NoError(t, err)
	require.NoError(t, tbl.Config())

	handle, err := tbl.Open()
	require.ErrorIs(t, err, ErrConfig)
	require.Nil(t, handle)
}

func TestDBLookupKeyTooLong(t *testing.T) {
	handle, _ := newDBTable(t, map[string]string{"alice": "alice:s3cret"})

	_, _, err := handle.Lookup(strings.Repeat("k", MaxLineSize), ServiceCredentials)
	require.ErrorIs(t, err, ErrDecode)
}
