package router

import "errors"

var (
	// ErrNilStore is returned when no idempotency store is provided.
	ErrNilStore = errors.New("idempotency store cannot be nil")

	// ErrNilEnqueuer is returned when no queue enqueuer is provided.
	ErrNilEnqueuer = errors.New("enqueuer cannot be nil")

	// ErrNoSender is returned when an in-app send is attempted without a
	// configured sender.
	ErrNoSender = errors.New("no in-app sender configured")
)
