package table

// staticBackend keeps its entries in memory, parsed once from a
// configuration blob. Lookup is a linear scan returning the first entry
// whose key matches, so insertion order is significant when keys repeat.
type staticBackend struct {
	entries []Entry
}

func (b *staticBackend) Services() Service {
	return ServiceAll
}

func (b *staticBackend) Config(config string) error {
	// no config ? ok
	if config == "" {
		return nil
	}

	entries, err := ParseConfig(config)
	if err != nil {
		return err
	}
	b.entries = entries
	return nil
}

// Update rebuilds the contents from config in a transient backend and
// commits them in one assignment. A parse failure leaves the live entries
// untouched.
func (b *staticBackend) Update(config string) error {
	if config == "" {
		return nil
	}

	next := &staticBackend{}
	if err := next.Config(config); err != nil {
		return err
	}

	b.entries = next.entries
	return nil
}

// Open returns the backend itself; the static backend has no separate
// runtime state.
func (b *staticBackend) Open() (Handle, error) {
	return b, nil
}

func (b *staticBackend) Close() error {
	return nil
}

func (b *staticBackend) Lookup(key string, service Service) (Record, bool, error) {
	for _, e := range b.entries {
		if e.Key == key {
			return decode(key, e.Value, service)
		}
	}
	return nil, false, nil
}

func (b *staticBackend) Compare(key string, service Service, match MatchFunc) (bool, error) {
	for _, e := range b.entries {
		if match(key, e.Key) {
			return true, nil
		}
	}
	return false, nil
}
