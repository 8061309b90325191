package queue

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler processes tasks of a single name.
type Handler interface {
	// Name returns the task name this handler is registered for.
	Name() string

	// Handle processes the raw task payload. Returning an error schedules a
	// retry according to the task's backoff policy.
	Handle(ctx context.Context, payload json.RawMessage) error
}

type taskHandler[T any] struct {
	name string
	fn   func(ctx context.Context, payload T) error
}

// NewTaskHandler wraps a typed function as a Handler. The task name is derived
// from the payload type so enqueuers and handlers agree without shared
// constants.
func NewTaskHandler[T any](fn func(ctx context.Context, payload T) error) Handler {
	return &taskHandler[T]{
		name: taskNameFor[T](),
		fn:   fn,
	}
}

func (h *taskHandler[T]) Name() string { return h.name }

func (h *taskHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var decoded T
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, h.name, err)
	}
	return h.fn(ctx, decoded)
}
