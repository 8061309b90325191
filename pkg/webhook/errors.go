package webhook

import "errors"

var (
	// ErrMissingSignature is returned when the signature header is absent.
	ErrMissingSignature = errors.New("missing signature header")

	// ErrInvalidSignature is returned when the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMissingSecret is returned when signing or verifying without a secret.
	ErrMissingSecret = errors.New("signing secret is required")

	// ErrVerificationFailed is returned when the subscribe handshake carries a
	// wrong mode or verify token.
	ErrVerificationFailed = errors.New("webhook verification failed")

	// ErrNilEnqueuer is returned when the handler is built without a queue.
	ErrNilEnqueuer = errors.New("enqueuer cannot be nil")

	// ErrNilStore is returned when the processor is built without its stores.
	ErrNilStore = errors.New("store cannot be nil")
)
