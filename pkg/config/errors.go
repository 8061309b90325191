package config

import "errors"

var (
	// ErrNilPointer indicates that Load received a nil destination.
	ErrNilPointer = errors.New("config destination must not be nil")

	// ErrParsingConfig indicates that environment parsing failed, usually a
	// missing required variable or a malformed value.
	ErrParsingConfig = errors.New("failed to parse config from environment")
)
