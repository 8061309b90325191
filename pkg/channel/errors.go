package channel

import "errors"

var (
	// ErrUnknownChannel is returned when a string does not name a known channel
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrInvalidEmail is returned when an email address fails validation
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPhone is returned when a phone number is not E.164-compatible
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrMissingUserID is returned when an application channel has no user id
	ErrMissingUserID = errors.New("missing user id")
)
