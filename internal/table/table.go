// Package table implements the lookup-table layer of the mail pipeline: named
// key to record stores that other components query by exact key without
// knowing whether the data comes from an inline configuration blob or from a
// persistent on-disk store.
package table

import (
	"fmt"
	"sync/atomic"

	log "github.com/koinos/koinos-log-golang"
)

// MaxLineSize bounds table names, keys and stored values. Shared with the
// protocol layer so that no decoded credential can exceed a session line.
const MaxLineSize = 1024

// Service selects which record format a raw value decodes as. Values combine
// into a bitset describing the services a backend supports.
type Service uint32

const (
	ServiceAlias Service = 1 << iota
	ServiceVirtual
	ServiceCredentials
	ServiceNetAddr
)

// ServiceAll is the full capability mask.
const ServiceAll = ServiceAlias | ServiceVirtual | ServiceCredentials | ServiceNetAddr

func (s Service) String() string {
	switch s {
	case ServiceAlias:
		return "alias"
	case ServiceVirtual:
		return "virtual"
	case ServiceCredentials:
		return "credentials"
	case ServiceNetAddr:
		return "netaddr"
	default:
		return "unknown"
	}
}

// ParseService returns the service named by s.
func ParseService(s string) (Service, error) {
	switch s {
	case "alias":
		return ServiceAlias, nil
	case "virtual":
		return ServiceVirtual, nil
	case "credentials":
		return ServiceCredentials, nil
	case "netaddr":
		return ServiceNetAddr, nil
	default:
		return 0, fmt.Errorf("unknown table service %q", s)
	}
}

// MatchFunc compares a lookup key against one stored entry key.
type MatchFunc func(key, entryKey string) bool

// Backend is the storage engine behind a Table.
//
// Config loads contents from a backend-specific configuration string. Open
// returns a live handle for lookups. Update atomically replaces the contents
// from a new configuration; on failure the previous contents are untouched.
type Backend interface {
	Services() Service
	Config(config string) error
	Open() (Handle, error)
	Update(config string) error
}

// Handle issues lookups against an opened backend.
//
// Lookup reports (record, true, nil) on a hit, (nil, false, nil) when the key
// is absent, (nil, true, nil) when the key is present but the service decodes
// it to no record, and a non-nil error when the stored value is malformed.
// Returned records are owned by the caller; the backend keeps no reference.
type Handle interface {
	Lookup(key string, service Service) (Record, bool, error)
	Compare(key string, service Service, match MatchFunc) (bool, error)
	Close() error
}

// Table binds a backend instance to a name and a process-unique id. The
// address of a Table never changes across updates, so holders of a *Table
// observe replaced contents without re-resolving anything.
type Table struct {
	name    string
	id      uint32
	src     string
	config  string
	backend Backend
}

var lastTableID uint32

// New creates a table bound to the backend named by the source designator.
// The config string is a static configuration blob for the "static" backend
// and a store path for the "db" backend.
func New(src, name, config string) (*Table, error) {
	if len(name) >= MaxLineSize {
		return nil, fmt.Errorf("%w, table name too long", ErrConfig)
	}

	var backend Backend
	switch src {
	case "static":
		backend = &staticBackend{}
	case "db":
		backend = &dbBackend{path: config}
	default:
		return nil, fmt.Errorf("%w, unknown table backend %q", ErrConfig, src)
	}

	return &Table{
		name:    name,
		id:      atomic.AddUint32(&lastTableID, 1),
		src:     src,
		config:  config,
		backend: backend,
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// ID returns the table's process-unique numeric identifier.
func (t *Table) ID() uint32 {
	return t.id
}

// Source returns the source designator the table was created with.
func (t *Table) Source() string {
	return t.src
}

// Services returns the capability mask of the table's backend. The mask is
// fixed per backend kind and never changes after construction.
func (t *Table) Services() Service {
	return t.backend.Services()
}

// Config loads the table contents from its configuration string.
func (t *Table) Config() error {
	return t.backend.Config(t.config)
}

// Open returns a live handle on the table's backend.
func (t *Table) Open() (Handle, error) {
	return t.backend.Open()
}

// Update replaces the table contents from a new configuration. The swap is
// all-or-nothing: if the new configuration fails to parse, the live contents
// are left untouched. Identity (name, id) is preserved either way.
func (t *Table) Update(config string) error {
	if err := t.backend.Update(config); err != nil {
		log.Infof("Failed to update table %q", t.name)
		return err
	}
	log.Infof("Table %q successfully updated", t.name)
	return nil
}
