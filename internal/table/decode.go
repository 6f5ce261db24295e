package table

import (
	"fmt"
	"strings"
)

// Record is one decoded lookup result. The concrete type depends on the
// service the lookup was issued for: *Credentials, *AliasExpansion,
// *VirtualExpansion or *NetAddr.
type Record interface {
	record()
}

// Credentials holds one username/password pair for authentication lookups.
type Credentials struct {
	Username string
	Password string
}

// AliasExpansion holds the ordered recipient targets an alias expands to.
type AliasExpansion struct {
	Nodes []ExpandNode
}

// VirtualExpansion holds the ordered recipient targets a virtual user
// expands to. Only built for user-qualified keys; domain-only keys decode to
// no record.
type VirtualExpansion struct {
	Nodes []ExpandNode
}

func (*Credentials) record()      {}
func (*AliasExpansion) record()   {}
func (*VirtualExpansion) record() {}
func (*NetAddr) record()          {}

// decode turns a raw stored value into a record for the requested service.
// Shared by both backends; a pure function of (key, value, service).
func decode(key, value string, service Service) (Record, bool, error) {
	switch service {
	case ServiceAlias:
		rec, err := DecodeAlias(value)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil

	case ServiceVirtual:
		rec, err := DecodeVirtual(key, value)
		if err != nil {
			return nil, false, err
		}
		if rec == nil {
			// domain key, value discarded
			return nil, true, nil
		}
		return rec, true, nil

	case ServiceCredentials:
		rec, err := DecodeCredentials(value)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil

	case ServiceNetAddr:
		rec, err := DecodeNetAddr(value)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil

	default:
		return nil, false, fmt.Errorf("%w, unsupported service %s", ErrDecode, service)
	}
}

// DecodeCredentials parses a "user:password" value. The separator is the
// first colon; both halves must be non-empty and fit a protocol line.
func DecodeCredentials(value string) (*Credentials, error) {
	if len(value) < 3 {
		return nil, fmt.Errorf("%w, credential entry too short", ErrDecode)
	}

	// too big to fit in a smtp session line
	if len(value) >= MaxLineSize {
		return nil, fmt.Errorf("%w, credential entry exceeds %d bytes", ErrDecode, MaxLineSize)
	}

	sep := strings.IndexByte(value, ':')
	if sep < 0 {
		return nil, fmt.Errorf("%w, credential entry lacks ':' separator", ErrDecode)
	}
	if sep == 0 {
		return nil, fmt.Errorf("%w, credential entry has empty username", ErrDecode)
	}
	if sep == len(value)-1 {
		return nil, fmt.Errorf("%w, credential entry has empty password", ErrDecode)
	}

	username := value[:sep]
	password := value[sep+1:]
	if len(username) >= MaxLineSize {
		return nil, fmt.Errorf("%w, username exceeds %d bytes", ErrDecode, MaxLineSize)
	}
	if len(password) >= MaxLineSize {
		return nil, fmt.Errorf("%w, password exceeds %d bytes", ErrDecode, MaxLineSize)
	}

	return &Credentials{Username: username, Password: password}, nil
}

// DecodeAlias parses a comma-separated expansion list.
func DecodeAlias(value string) (*AliasExpansion, error) {
	nodes, err := parseExpandList(value)
	if err != nil {
		return nil, err
	}
	return &AliasExpansion{Nodes: nodes}, nil
}

// DecodeVirtual parses a comma-separated expansion list for a user-qualified
// key. A key without '@' is a domain catch-all entry: the value is discarded
// and (nil, nil) is returned, which callers must treat as success without a
// record.
func DecodeVirtual(key, value string) (*VirtualExpansion, error) {
	if !strings.ContainsRune(key, '@') {
		return nil, nil
	}

	nodes, err := parseExpandList(value)
	if err != nil {
		return nil, err
	}
	return &VirtualExpansion{Nodes: nodes}, nil
}

// DecodeNetAddr parses an address or address/mask value.
func DecodeNetAddr(value string) (*NetAddr, error) {
	addr, err := ParseNetAddr(value)
	if err != nil {
		return nil, fmt.Errorf("%w, %v", ErrDecode, err)
	}
	return addr, nil
}

// parseExpandList splits a value on commas, trims each token and parses it
// into an expansion node. Any bad token fails the whole list; no partial
// result is returned.
func parseExpandList(value string) ([]ExpandNode, error) {
	tokens := strings.Split(value, ",")
	nodes := make([]ExpandNode, 0, len(tokens))

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("%w, empty recipient in expansion list", ErrDecode)
		}

		node, err := ParseExpandNode(token)
		if err != nil {
			return nil, fmt.Errorf("%w, %v", ErrDecode, err)
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}
