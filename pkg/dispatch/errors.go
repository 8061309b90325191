package dispatch

import "errors"

var (
	// ErrNoRecipients is returned when Trigger is called with an empty list.
	ErrNoRecipients = errors.New("no recipients")

	// ErrInvalidRecipients wraps per-index validation failures. The whole call
	// aborts before any dispatch when one recipient is malformed.
	ErrInvalidRecipients = errors.New("invalid recipients")

	// ErrNilDependency is returned when the service is built without a
	// required collaborator.
	ErrNilDependency = errors.New("missing dependency")
)

// Error codes attached to per-recipient errors in BulkResult.
const (
	CodePipeline = "pipeline_failed"
	CodeDispatch = "dispatch_failed"
	CodePanic    = "panic"
)
