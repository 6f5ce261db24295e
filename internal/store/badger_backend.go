package store

import (
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerBackend Badger backend implementation
type BadgerBackend struct {
	DB *badger.DB
}

// NewBadgerBackend BadgerBackend constructor, fails if the store cannot be opened
func NewBadgerBackend(opts badger.Options) (*BadgerBackend, error) {
	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerBackend{DB: badgerDB}, nil
}

// OpenReadOnly opens an existing badger store at path for lookups only
func OpenReadOnly(path string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(path).WithReadOnly(true)
	opts.Logger = BadgerZapLogger{}
	return NewBadgerBackend(opts)
}

// Close cleans backend resources
func (backend *BadgerBackend) Close() error {
	return backend.DB.Close()
}

// Put backend setter
func (backend *BadgerBackend) Put(key, value []byte) error {
	if value == nil {
		return errors.New("cannot put a nil value")
	}
	return backend.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Get backend getter
func (backend *BadgerBackend) Get(key []byte) ([]byte, error) {
	var value []byte = nil
	err := backend.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		err = item.Value(func(val []byte) error {
			value = append([]byte{}, val...)
			return nil
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return value, nil
}

// ForEachKey walks the store keys in badger's key order using a keys-only iterator
func (backend *BadgerBackend) ForEachKey(fn func(key []byte) bool) error {
	return backend.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if !fn(key) {
				break
			}
		}
		return nil
	})
}

// BadgerZapLogger implements the badger.Logger interface in order to pass badger logs to the zap logger
type BadgerZapLogger struct {
}

// Errorf implements formatted error message handling for badger
func (bzl BadgerZapLogger) Errorf(msg string, args ...interface{}) {
	zap.S().Errorf(strings.TrimSpace(msg), args...)
}

// Warningf implements formatted warning message handling for badger
func (bzl BadgerZapLogger) Warningf(msg string, args ...interface{}) {
	zap.S().Warnf(strings.TrimSpace(msg), args...)
}

// Infof implements formatted info message handling for badger
func (bzl BadgerZapLogger) Infof(msg string, args ...interface{}) {
	zap.S().Infof(strings.TrimSpace(msg), args...)
}

// Debugf implements formatted debug message handling for badger
func (bzl BadgerZapLogger) Debugf(msg string, args ...interface{}) {
	zap.S().Debugf(strings.TrimSpace(msg), args...)
}
