package ratelimit

import "errors"

var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilStore is returned when a nil store is provided to NewBucket.
	ErrNilStore = errors.New("store cannot be nil")
)
