package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Enqueuer creates tasks from typed payloads.
type Enqueuer struct {
	repo            Repository
	defaultQueue    string
	defaultPriority int
	defaultRetries  int
	defaultBackoff  BackoffType
	backoffBase     time.Duration
}

// NewEnqueuer creates an enqueuer backed by the given repository.
func NewEnqueuer(repo Repository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	e := &Enqueuer{
		repo:            repo,
		defaultQueue:    DefaultQueueName,
		defaultPriority: DefaultPriority,
		defaultRetries:  3,
		defaultBackoff:  BackoffExponential,
		backoffBase:     defaultBackoffBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enqueue stores a task for asynchronous processing. The task name is derived
// from the payload's type, matching the name NewTaskHandler derives for the
// same type.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) (uuid.UUID, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	now := time.Now()
	task := &Task{
		ID:          uuid.New(),
		Queue:       e.defaultQueue,
		Name:        taskNameOf(reflect.TypeOf(payload)),
		Payload:     data,
		Status:      TaskStatusPending,
		Priority:    e.defaultPriority,
		MaxRetries:  e.defaultRetries,
		Backoff:     e.defaultBackoff,
		BackoffBase: e.backoffBase,
		ScheduledAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(task)
	}

	if err := e.repo.CreateTask(ctx, task); err != nil {
		return uuid.Nil, fmt.Errorf("create task %s: %w", task.Name, err)
	}
	return task.ID, nil
}
