package logstore

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("delivery record not found")

	// ErrInvalidStatus is returned when an unknown status is written.
	ErrInvalidStatus = errors.New("invalid delivery status")

	// ErrNilPool is returned when a nil connection pool is provided.
	ErrNilPool = errors.New("connection pool cannot be nil")
)
