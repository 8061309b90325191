package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned for a malformed connection URL.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrNotReady is returned when every connection attempt failed.
	ErrNotReady = errors.New("redis is not ready")

	// ErrHealthcheckFailed indicates the client lost its connection.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
