package store

import (
	"errors"
	"sort"
)

// MapBackend implements a key-value store backed by a simple map
type MapBackend struct {
	storage map[string][]byte
}

// NewMapBackend creates and returns a reference to a map backend instance
func NewMapBackend() *MapBackend {
	return &MapBackend{make(map[string][]byte)}
}

// Put adds the requested value to the database
func (backend *MapBackend) Put(key []byte, value []byte) error {
	if len(key) == 0 {
		return errors.New("cannot put an empty key")
	}
	if value == nil {
		return errors.New("cannot put a nil value")
	}
	backend.storage[string(key)] = append([]byte{}, value...)
	return nil
}

// Get fetches the requested value from the database
func (backend *MapBackend) Get(key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.New("key cannot be empty")
	}
	val, ok := backend.storage[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte{}, val...), nil
}

// ForEachKey visits every key in sorted order so that scans are deterministic
func (backend *MapBackend) ForEachKey(fn func(key []byte) bool) error {
	keys := make([]string, 0, len(backend.storage))
	for k := range backend.storage {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !fn([]byte(k)) {
			break
		}
	}
	return nil
}

// Close cleans backend resources
func (backend *MapBackend) Close() error {
	backend.storage = nil
	return nil
}
