package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "activity:last_seen:"

// RedisStore keeps last-seen timestamps in Redis so every worker process
// observes the same activity signal.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed activity store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) SetLastSeen(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+userID, at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("setting last seen for %s: %w", userID, err)
	}
	return nil
}

func (s *RedisStore) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("getting last seen for %s: %w", userID, err)
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing last seen for %s: %w", userID, err)
	}
	return time.Unix(unix, 0), true, nil
}
