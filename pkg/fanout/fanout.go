package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPanicked wraps a panic recovered from a processing function.
var ErrPanicked = errors.New("fanout: processor panicked")

// DefaultConcurrency bounds parallelism when no limit is given.
const DefaultConcurrency = 10

// Result pairs an input item with its outcome.
type Result[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Success reports whether the item processed without error.
func (r Result[T, R]) Success() bool {
	return r.Err == nil
}

// Process applies fn to every item with at most limit concurrent invocations.
// Results are returned in input order. Panics inside fn are recovered into
// the item's error; a canceled ctx fails the remaining unstarted items with
// the context error rather than abandoning them.
func Process[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Result[T, R] {
	if len(items) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]Result[T, R], len(items))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, item := range items {
		results[i].Item = item

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Value, results[i].Err = run(ctx, item, fn)
		}()
	}

	wg.Wait()
	return results
}

// ProcessBatched chunks items before applying Process to each chunk in turn,
// bounding peak memory for very large inputs. Results keep input order.
func ProcessBatched[T, R any](ctx context.Context, items []T, limit, batchSize int, fn func(context.Context, T) (R, error)) []Result[T, R] {
	if batchSize <= 0 {
		return Process(ctx, items, limit, fn)
	}

	results := make([]Result[T, R], 0, len(items))
	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))
		results = append(results, Process(ctx, items[start:end], limit, fn)...)
	}
	return results
}

func run[T, R any](ctx context.Context, item T, fn func(context.Context, T) (R, error)) (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	return fn(ctx, item)
}
