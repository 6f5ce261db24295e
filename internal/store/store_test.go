package store

import (
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"
)

func testBackendRoundTrip(t *testing.T, backend Backend) {
	require.NoError(t, backend.Put([]byte("alice"), []byte("alice:s3cret")))
	require.NoError(t, backend.Put([]byte("bob"), []byte("bob:hunter2")))

	value, err := backend.Get([]byte("alice"))
	require.NoError(t, err)
	require.Equal(t, []byte("alice:s3cret"), value)

	_, err = backend.Get([]byte("carol"))
	require.ErrorIs(t, err, ErrNotFound)
}

func testBackendScan(t *testing.T, backend Backend) {
	require.NoError(t, backend.Put([]byte("c"), []byte("3")))
	require.NoError(t, backend.Put([]byte("a"), []byte("1")))
	require.NoError(t, backend.Put([]byte("b"), []byte("2")))

	var keys []string
	require.NoError(t, backend.ForEachKey(func(key []byte) bool {
		keys = append(keys, string(key))
		return true
	}))
	require.Equal(t, []string{"a", "b", "c"}, keys)

	// early stop
	keys = nil
	require.NoError(t, backend.ForEachKey(func(key []byte) bool {
		keys = append(keys, string(key))
		return false
	}))
	require.Equal(t, []string{"a"}, keys)
}

func TestMapBackend(t *testing.T) {
	backend := NewMapBackend()
	defer backend.Close()

	testBackendRoundTrip(t, backend)

	scanBackend := NewMapBackend()
	defer scanBackend.Close()

	testBackendScan(t, scanBackend)
}

func TestMapBackendRejectsEmptyKey(t *testing.T) {
	backend := NewMapBackend()
	defer backend.Close()

	require.Error(t, backend.Put([]byte{}, []byte("x")))
	_, err := backend.Get(nil)
	require.Error(t, err)
}

func newTestBadgerBackend(t *testing.T) *BadgerBackend {
	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	backend, err := NewBadgerBackend(opts)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestBadgerBackend(t *testing.T) {
	backend := newTestBadgerBackend(t)

	testBackendRoundTrip(t, backend)

	testBackendScan(t, newTestBadgerBackend(t))
}

func TestBadgerBackendOpenFailure(t *testing.T) {
	_, err := OpenReadOnly("/nonexistent/store/path")
	require.Error(t, err)
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	backend, err := NewBadgerBackend(opts)
	require.NoError(t, err)
	require.NoError(t, backend.Put([]byte("alice"), []byte("alice:s3cret")))
	require.NoError(t, backend.Close())

	ro, err := OpenReadOnly(dir)
	require.NoError(t, err)
	defer ro.Close()

	value, err := ro.Get([]byte("alice"))
	require.NoError(t, err)
	require.Equal(t, []byte("alice:s3cret"), value)

	require.Error(t, ro.Put([]byte("bob"), []byte("x")))
}
