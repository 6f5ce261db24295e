package table

import (
	"fmt"

	log "github.com/koinos/koinos-log-golang"

	"github.com/roaminroe/mailtable/internal/store"
)

// dbBackend serves lookups from an external hashed key-value store, opened
// read-only at the configured path. Contents are replaced by rebuilding the
// store and re-opening, never by mutation, so Config and Update are no-ops.
type dbBackend struct {
	path string
}

func (b *dbBackend) Services() Service {
	return ServiceAll
}

func (b *dbBackend) Config(config string) error {
	return nil
}

func (b *dbBackend) Update(config string) error {
	return nil
}

func (b *dbBackend) Open() (Handle, error) {
	backend, err := store.OpenReadOnly(b.path)
	if err != nil {
		return nil, fmt.Errorf("%w, cannot open table store at %s: %v", ErrConfig, b.path, err)
	}
	return &dbHandle{db: backend}, nil
}

type dbHandle struct {
	db store.Backend
}

func (h *dbHandle) Lookup(key string, service Service) (Record, bool, error) {
	if len(key) >= MaxLineSize {
		return nil, false, fmt.Errorf("%w, lookup key too long", ErrDecode)
	}

	value, err := h.db.Get([]byte(key))
	if err == store.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w, %v", store.ErrBackend, err)
	}

	return decode(key, string(value), service)
}

// Compare walks every key of the store in order. The store offers no
// secondary index, so this is O(n) per call.
func (h *dbHandle) Compare(key string, service Service, match MatchFunc) (bool, error) {
	found := false
	err := h.db.ForEachKey(func(entryKey []byte) bool {
		log.Debugf("comparing key %q against entry %q", key, entryKey)
		if match(key, string(entryKey)) {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("%w, %v", store.ErrBackend, err)
	}
	return found, nil
}

func (h *dbHandle) Close() error {
	return h.db.Close()
}
