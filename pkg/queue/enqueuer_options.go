package queue

import "time"

// EnqueuerOption configures enqueuer defaults.
type EnqueuerOption func(*Enqueuer)

// WithDefaultQueue sets the queue used when none is given at enqueue time.
func WithDefaultQueue(queue string) EnqueuerOption {
	return func(e *Enqueuer) {
		if queue != "" {
			e.defaultQueue = queue
		}
	}
}

// WithDefaultPriority sets the priority used when none is given at enqueue time.
func WithDefaultPriority(priority int) EnqueuerOption {
	return func(e *Enqueuer) {
		e.defaultPriority = clampPriority(priority)
	}
}

// WithDefaultMaxRetries sets the retry budget used when none is given at
// enqueue time.
func WithDefaultMaxRetries(retries int) EnqueuerOption {
	return func(e *Enqueuer) {
		e.defaultRetries = clampRetries(retries)
	}
}

// WithDefaultBackoff sets the backoff policy used when none is given at
// enqueue time.
func WithDefaultBackoff(backoff BackoffType, base time.Duration) EnqueuerOption {
	return func(e *Enqueuer) {
		e.defaultBackoff = backoff
		if base > 0 {
			e.backoffBase = base
		}
	}
}

// EnqueueOption configures a single task.
type EnqueueOption func(*Task)

// WithQueue routes the task to a specific queue.
func WithQueue(queue string) EnqueueOption {
	return func(t *Task) {
		if queue != "" {
			t.Queue = queue
		}
	}
}

// WithPriority sets the task priority, clamped to [MinPriority, MaxPriority].
func WithPriority(priority int) EnqueueOption {
	return func(t *Task) {
		t.Priority = clampPriority(priority)
	}
}

// WithMaxRetries sets the retry budget, clamped to [0, 10].
func WithMaxRetries(retries int) EnqueueOption {
	return func(t *Task) {
		t.MaxRetries = clampRetries(retries)
	}
}

// WithBackoff sets the retry backoff policy for the task.
func WithBackoff(backoff BackoffType, base time.Duration) EnqueueOption {
	return func(t *Task) {
		t.Backoff = backoff
		if base > 0 {
			t.BackoffBase = base
		}
	}
}

// WithDelay postpones the first run by the given duration.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(t *Task) {
		if delay > 0 {
			t.ScheduledAt = time.Now().Add(delay)
		}
	}
}

// WithScheduledAt postpones the first run until the given time.
func WithScheduledAt(at time.Time) EnqueueOption {
	return func(t *Task) {
		if !at.IsZero() {
			t.ScheduledAt = at
		}
	}
}

// WithTaskName overrides the type-derived task name.
func WithTaskName(name string) EnqueueOption {
	return func(t *Task) {
		if name != "" {
			t.Name = name
		}
	}
}

func clampPriority(p int) int {
	return min(max(p, MinPriority), MaxPriority)
}

func clampRetries(r int) int {
	return min(max(r, 0), 10)
}
