package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Worker drains queues with bounded concurrency. Failed tasks are rescheduled
// according to their backoff policy until MaxRetries is exhausted, then moved
// to the dead letter queue.
type Worker struct {
	repo         WorkerRepository
	handlers     map[string]Handler
	queues       []string
	concurrency  int
	pollInterval time.Duration
	log          *slog.Logger

	stopping atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWorker creates a worker over the given repository and handlers.
func NewWorker(repo WorkerRepository, handlers []Handler, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	w := &Worker{
		repo:         repo,
		handlers:     make(map[string]Handler, len(handlers)),
		concurrency:  4,
		pollInterval: 500 * time.Millisecond,
		log:          slog.Default(),
		stopCh:       make(chan struct{}),
	}
	for _, h := range handlers {
		if _, exists := w.handlers[h.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHandler, h.Name())
		}
		w.handlers[h.Name()] = h
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run processes tasks until ctx is canceled or Stop is called. It blocks, so
// call it from a goroutine or an errgroup.
func (w *Worker) Run(ctx context.Context) error {
	if w.stopping.Load() {
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.concurrency)
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-w.stopCh:
			wg.Wait()
			return nil
		case <-ticker.C:
			w.drain(ctx, sem, &wg)
		}
	}
}

// Stop signals the worker to finish in-flight tasks and return from Run.
// Safe to call multiple times.
func (w *Worker) Stop() {
	w.stopping.Store(true)
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// drain claims tasks until the queue is empty or all slots are busy.
func (w *Worker) drain(ctx context.Context, sem chan struct{}, wg *sync.WaitGroup) {
	for {
		select {
		case sem <- struct{}{}:
		default:
			return
		}

		task, err := w.repo.ClaimTask(ctx, w.queues)
		if err != nil {
			<-sem
			if !errors.Is(err, ErrNoTaskAvailable) && !errors.Is(err, context.Canceled) {
				w.log.ErrorContext(ctx, "claim task", logger.Error(err))
			}
			return
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			w.processTask(ctx, task)
		}()
	}
}

func (w *Worker) processTask(ctx context.Context, task *Task) {
	handler, ok := w.handlers[task.Name]
	if !ok {
		w.log.ErrorContext(ctx, "no handler for task",
			slog.String("task", task.Name),
			slog.String("task_id", task.ID.String()))
		if err := w.repo.MoveToDLQ(ctx, task.ID, ErrHandlerNotFound.Error()); err != nil {
			w.log.ErrorContext(ctx, "move task to dlq", logger.Error(err))
		}
		return
	}

	err := w.runHandler(ctx, handler, task)
	if err == nil {
		if err := w.repo.CompleteTask(ctx, task.ID); err != nil {
			w.log.ErrorContext(ctx, "complete task", logger.Error(err))
		}
		return
	}

	w.handleFailure(ctx, task, err)
}

// runHandler isolates handler panics so one bad payload cannot kill the worker.
func (w *Worker) runHandler(ctx context.Context, handler Handler, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task handler panic: %v", r)
			w.log.ErrorContext(ctx, "task handler panicked",
				slog.String("task", task.Name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()
	return handler.Handle(ctx, task.Payload)
}

func (w *Worker) handleFailure(ctx context.Context, task *Task, taskErr error) {
	if task.RetryCount >= task.MaxRetries {
		w.log.WarnContext(ctx, "task exhausted retries",
			slog.String("task", task.Name),
			slog.String("task_id", task.ID.String()),
			logger.RetryCount(task.RetryCount),
			logger.Error(taskErr))
		if err := w.repo.MoveToDLQ(ctx, task.ID, taskErr.Error()); err != nil {
			w.log.ErrorContext(ctx, "move task to dlq", logger.Error(err))
		}
		return
	}

	delay := RetryDelay(task.Backoff, task.BackoffBase, task.RetryCount+1)
	retryAt := time.Now().Add(delay)
	w.log.InfoContext(ctx, "task retry scheduled",
		slog.String("task", task.Name),
		slog.String("task_id", task.ID.String()),
		logger.RetryCount(task.RetryCount+1),
		slog.Duration("delay", delay),
		logger.Error(taskErr))
	if err := w.repo.RetryTask(ctx, task.ID, taskErr.Error(), retryAt); err != nil {
		w.log.ErrorContext(ctx, "reschedule task", logger.Error(err))
	}
}
