package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
)

func newBucket(t *testing.T, capacity int) *ratelimit.Bucket {
	t.Helper()

	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	bucket, err := ratelimit.NewBucket(store, ratelimit.Config{
		Capacity:       capacity,
		RefillRate:     1,
		RefillInterval: time.Hour,
	})
	require.NoError(t, err)
	return bucket
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bucket := newBucket(t, 2)

	for i := range 2 {
		res, err := bucket.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "request %d should be allowed", i)
	}

	res, err := bucket.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, res.Allowed(), "capacity exhausted")
	assert.Positive(t, res.RetryAfter())

	// Other users have their own bucket.
	res, err = bucket.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestBucketReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bucket := newBucket(t, 1)

	_, err := bucket.Allow(ctx, "user-1")
	require.NoError(t, err)
	res, err := bucket.Allow(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, res.Allowed())

	require.NoError(t, bucket.Reset(ctx, "user-1"))

	res, err = bucket.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestMemoryStoreRefill(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := ratelimit.NewMemoryStore(
		ratelimit.WithCleanupInterval(0),
		ratelimit.WithStoreClock(clock),
	)
	t.Cleanup(store.Close)

	cfg := ratelimit.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute}

	consume := func() int {
		remaining, _, err := store.ConsumeTokens(ctx, "user-1", 1, cfg)
		require.NoError(t, err)
		return remaining
	}

	assert.Equal(t, 1, consume())
	assert.Equal(t, 0, consume())
	assert.Equal(t, -1, consume(), "capacity exhausted")

	// A partial interval earns nothing.
	now = now.Add(30 * time.Second)
	assert.Equal(t, -1, consume())

	// Crossing the interval boundary credits one token; the 30s remainder is
	// kept, so the next token arrives a full minute after the first.
	now = now.Add(31 * time.Second)
	assert.Equal(t, 0, consume())

	// Long idle refills to capacity, never beyond.
	now = now.Add(time.Hour)
	assert.Equal(t, 1, consume())
}

func TestMemoryStoreDropsRefilledEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var mu sync.Mutex
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	store := ratelimit.NewMemoryStore(
		ratelimit.WithCleanupInterval(time.Millisecond),
		ratelimit.WithStoreClock(clock),
	)
	t.Cleanup(store.Close)

	cfg := ratelimit.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute}
	_, _, err := store.ConsumeTokens(ctx, "user-1", 1, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return store.Len() == 0 },
		time.Second, 5*time.Millisecond, "refilled bucket swept from memory")
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	_, err := ratelimit.NewBucket(store, ratelimit.Config{Capacity: 0, RefillRate: 1, RefillInterval: time.Second})
	assert.ErrorIs(t, err, ratelimit.ErrInvalidConfig)

	_, err = ratelimit.NewBucket(nil, ratelimit.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	assert.ErrorIs(t, err, ratelimit.ErrNilStore)
}
