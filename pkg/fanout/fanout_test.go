package fanout_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/fanout"
)

func TestProcessPreservesOrder(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	results := fanout.Process(context.Background(), items, 3, func(ctx context.Context, n int) (string, error) {
		return fmt.Sprintf("n=%d", n), nil
	})

	require.Len(t, results, len(items))
	for i, r := range results {
		assert.Equal(t, items[i], r.Item)
		assert.Equal(t, fmt.Sprintf("n=%d", items[i]), r.Value)
		assert.True(t, r.Success())
	}
}

func TestProcessSettlesAll(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	results := fanout.Process(context.Background(), []int{1, 2, 3}, 2, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n * 10, nil
	})

	assert.True(t, results[0].Success())
	assert.ErrorIs(t, results[1].Err, boom)
	assert.True(t, results[2].Success(), "one failure never aborts the others")
	assert.Equal(t, 30, results[2].Value)
}

func TestProcessRecoversPanics(t *testing.T) {
	t.Parallel()

	results := fanout.Process(context.Background(), []int{1, 2}, 2, func(ctx context.Context, n int) (int, error) {
		if n == 1 {
			panic("bad item")
		}
		return n, nil
	})

	assert.ErrorIs(t, results[0].Err, fanout.ErrPanicked)
	assert.True(t, results[1].Success())
}

func TestProcessBoundsConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 3
	var inFlight, peak atomic.Int32
	var mu sync.Mutex

	items := make([]int, 20)
	fanout.Process(context.Background(), items, limit, func(ctx context.Context, n int) (struct{}, error) {
		cur := inFlight.Add(1)
		mu.Lock()
		if cur > peak.Load() {
			peak.Store(cur)
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestProcessCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := fanout.Process(ctx, []int{1, 2, 3}, 1, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestProcessBatched(t *testing.T) {
	t.Parallel()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	results := fanout.ProcessBatched(context.Background(), items, 4, 10, func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})

	require.Len(t, results, 25)
	for i, r := range results {
		assert.Equal(t, i*2, r.Value)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	t.Parallel()

	results := fanout.Process(context.Background(), nil, 4, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})
	assert.Nil(t, results)
}
