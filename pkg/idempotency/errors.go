package idempotency

import "errors"

var (
	// ErrNilClient is returned when a nil redis client is provided
	ErrNilClient = errors.New("redis client cannot be nil")
)
