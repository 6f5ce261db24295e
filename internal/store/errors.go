package store

import "errors"

var (
	// ErrNotFound occurs when a key is absent from the backend
	ErrNotFound = errors.New("key not found")

	// ErrBackend occurs when there is an error in the backend
	ErrBackend = errors.New("error in backend")
)
