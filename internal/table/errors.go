package table

import "errors"

var (
	// ErrDecode occurs when a stored value is malformed for the requested service
	ErrDecode = errors.New("malformed table value")

	// ErrConfig occurs when a table configuration cannot be parsed or a backend cannot be opened
	ErrConfig = errors.New("invalid table configuration")
)
