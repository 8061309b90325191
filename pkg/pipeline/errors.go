package pipeline

import "errors"

var (
	// ErrMissingPhone rejects a recipient without a phone number. Phone is
	// mandatory across all channels: SMS and WhatsApp require it and
	// email-only delivery is not assumed reliable.
	ErrMissingPhone = errors.New("recipient phone is required")

	// ErrNoChannels signals that no channel is enabled for the recipient.
	// Callers count it as a skip, not a failure.
	ErrNoChannels = errors.New("no channels enabled")

	// ErrNilManifest is returned when the context carries no manifest.
	ErrNilManifest = errors.New("manifest is required")
)
