package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a queued task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusRetrying   TaskStatus = "retrying"
	TaskStatusDead       TaskStatus = "dead"
)

// Priority bounds for tasks. Higher priority tasks are claimed first.
const (
	MinPriority     = 0
	MaxPriority     = 100
	DefaultPriority = 50
)

// DefaultQueueName is used when no queue is specified at enqueue time.
const DefaultQueueName = "default"

// Task is a unit of asynchronous work. Payload is the JSON-encoded argument
// passed to the handler registered under Name.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	Queue       string          `json:"queue"`
	Name        string          `json:"name"`
	Payload     json.RawMessage `json:"payload"`
	Status      TaskStatus      `json:"status"`
	Priority    int             `json:"priority"`
	RetryCount  int             `json:"retry_count"`
	MaxRetries  int             `json:"max_retries"`
	Backoff     BackoffType     `json:"backoff"`
	BackoffBase time.Duration   `json:"backoff_base"`
	LastError   string          `json:"last_error,omitempty"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DeadTask is a task that exhausted its retries, preserved for inspection.
type DeadTask struct {
	Task    Task      `json:"task"`
	Reason  string    `json:"reason"`
	MovedAt time.Time `json:"moved_at"`
}
