package activity

import "errors"

var (
	// ErrNilStore is returned when a nil store is provided to NewTracker
	ErrNilStore = errors.New("activity store cannot be nil")

	// ErrNilClient is returned when a nil redis client is provided
	ErrNilClient = errors.New("redis client cannot be nil")
)
