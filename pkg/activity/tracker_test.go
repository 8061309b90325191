package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/activity"
)

func testConfig() activity.Config {
	return activity.Config{
		InactivityThreshold: 72 * time.Hour,
		CacheTTL:            5 * time.Minute,
		RetentionTTL:        90 * 24 * time.Hour,
	}
}

func TestIsActive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown user is inactive", func(t *testing.T) {
		t.Parallel()
		tracker, err := activity.NewTracker(activity.NewMemoryStore(), testConfig())
		require.NoError(t, err)

		active, err := tracker.IsActive(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("recently seen user is active", func(t *testing.T) {
		t.Parallel()
		tracker, err := activity.NewTracker(activity.NewMemoryStore(), testConfig())
		require.NoError(t, err)

		require.NoError(t, tracker.Touch(ctx, "u1"))

		active, err := tracker.IsActive(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("user beyond threshold is inactive", func(t *testing.T) {
		t.Parallel()
		store := activity.NewMemoryStore()
		now := time.Now()
		require.NoError(t, store.SetLastSeen(ctx, "u1", now.Add(-100*time.Hour), time.Hour))

		tracker, err := activity.NewTracker(store, testConfig())
		require.NoError(t, err)

		active, err := tracker.IsActive(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, active)
	})

	t.Run("verdict cached until touch", func(t *testing.T) {
		t.Parallel()
		store := &countingStore{Store: activity.NewMemoryStore()}
		tracker, err := activity.NewTracker(store, testConfig())
		require.NoError(t, err)

		for range 3 {
			_, err := tracker.IsActive(ctx, "u1")
			require.NoError(t, err)
		}
		assert.Equal(t, 1, store.reads)

		require.NoError(t, tracker.Touch(ctx, "u1"))
		active, err := tracker.IsActive(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, active)
		assert.Equal(t, 2, store.reads)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		t.Parallel()
		tracker, err := activity.NewTracker(failingStore{}, testConfig())
		require.NoError(t, err)

		_, err = tracker.IsActive(ctx, "u1")
		assert.Error(t, err)
	})
}

type countingStore struct {
	activity.Store
	reads int
}

func (s *countingStore) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	s.reads++
	return s.Store.LastSeen(ctx, userID)
}

type failingStore struct{}

func (failingStore) SetLastSeen(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	return errors.New("store down")
}

func (failingStore) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("store down")
}
