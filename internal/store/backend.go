package store

// Backend interface defines an abstract key-value store
type Backend interface {
	/**
	 * Store the given value in the given key.
	 */
	Put(key []byte, value []byte) error

	/**
	 * Get a previously stored value.
	 *
	 * If the key is not found, returns ErrNotFound.
	 */
	Get(key []byte) ([]byte, error)

	/**
	 * Visit every key in the store in key order.
	 *
	 * Iteration stops early when fn returns false.
	 */
	ForEachKey(fn func(key []byte) bool) error

	// Close releases the backend resources
	Close() error
}
