package queue

import "errors"

var (
	// ErrTaskNotFound is returned when a task cannot be found in the repository.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoTaskAvailable is returned by ClaimTask when no task is ready to run.
	ErrNoTaskAvailable = errors.New("no task available")

	// ErrHandlerNotFound is returned when no handler is registered for a task name.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrDuplicateHandler is returned when two handlers register the same task name.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrInvalidPayload is returned when a task payload cannot be marshaled or decoded.
	ErrInvalidPayload = errors.New("invalid task payload")

	// ErrNilRepository is returned when a nil repository is provided.
	ErrNilRepository = errors.New("repository cannot be nil")

	// ErrWorkerRunning is returned when Start is called on a running worker.
	ErrWorkerRunning = errors.New("worker already running")
)
