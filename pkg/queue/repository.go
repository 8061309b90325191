package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists tasks for the enqueuer.
type Repository interface {
	// CreateTask stores a new task in pending state.
	CreateTask(ctx context.Context, task *Task) error
}

// WorkerRepository extends Repository with the operations a worker needs to
// claim and settle tasks.
type WorkerRepository interface {
	Repository

	// ClaimTask atomically claims the highest-priority pending task whose
	// ScheduledAt has passed and marks it processing. Returns
	// ErrNoTaskAvailable when the queue is drained.
	ClaimTask(ctx context.Context, queues []string) (*Task, error)

	// CompleteTask marks a processing task completed.
	CompleteTask(ctx context.Context, taskID uuid.UUID) error

	// RetryTask returns a failed task to pending with the given error message
	// and next run time, incrementing its retry count.
	RetryTask(ctx context.Context, taskID uuid.UUID, errMsg string, retryAt time.Time) error

	// MoveToDLQ removes the task from the live queue and records it as dead.
	MoveToDLQ(ctx context.Context, taskID uuid.UUID, reason string) error
}
