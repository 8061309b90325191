package queue

import (
	"log/slog"
	"time"
)

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithQueues restricts the worker to the given queues. By default the worker
// claims from all queues.
func WithQueues(queues ...string) WorkerOption {
	return func(w *Worker) {
		w.queues = queues
	}
}

// WithConcurrency bounds the number of tasks processed in parallel.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithPollInterval sets how often the worker checks for ready tasks.
func WithPollInterval(interval time.Duration) WorkerOption {
	return func(w *Worker) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithWorkerLogger sets the logger used for task lifecycle events.
func WithWorkerLogger(log *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}
