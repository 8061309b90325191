package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory WorkerRepository for tests and single
// process deployments.
type MemoryRepository struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
	dead  []DeadTask
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: make(map[uuid.UUID]*Task),
	}
}

func (r *MemoryRepository) CreateTask(ctx context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

// ClaimTask picks the ready pending task with the highest priority, breaking
// ties by earliest ScheduledAt.
func (r *MemoryRepository) ClaimTask(ctx context.Context, queues []string) (*Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var best *Task
	for _, t := range r.tasks {
		if t.Status != TaskStatusPending && t.Status != TaskStatusRetrying {
			continue
		}
		if t.ScheduledAt.After(now) {
			continue
		}
		if len(queues) > 0 && !slices.Contains(queues, t.Queue) {
			continue
		}
		if best == nil || t.Priority > best.Priority ||
			(t.Priority == best.Priority && t.ScheduledAt.Before(best.ScheduledAt)) {
			best = t
		}
	}
	if best == nil {
		return nil, ErrNoTaskAvailable
	}

	best.Status = TaskStatusProcessing
	best.UpdatedAt = now
	claimed := *best
	return &claimed, nil
}

func (r *MemoryRepository) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	t.Status = TaskStatusCompleted
	t.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) RetryTask(ctx context.Context, taskID uuid.UUID, errMsg string, retryAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	t.Status = TaskStatusRetrying
	t.RetryCount++
	t.LastError = errMsg
	t.ScheduledAt = retryAt
	t.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) MoveToDLQ(ctx context.Context, taskID uuid.UUID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	t.Status = TaskStatusDead
	t.UpdatedAt = time.Now()
	r.dead = append(r.dead, DeadTask{
		Task:    *t,
		Reason:  reason,
		MovedAt: t.UpdatedAt,
	})
	delete(r.tasks, taskID)
	return nil
}

// Task returns a copy of the stored task, if present.
func (r *MemoryRepository) Task(taskID uuid.UUID) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[taskID]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// DeadTasks returns a snapshot of the dead letter queue.
func (r *MemoryRepository) DeadTasks() []DeadTask {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.dead)
}
