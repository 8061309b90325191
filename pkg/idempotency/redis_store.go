package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Compare-and-delete so only the holder releases its own lock; a lock that
// expired and was re-acquired by someone else stays untouched.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisStore implements Store on Redis. SETNX gives the atomic
// set-if-not-exists primitive for both the lock and the sent marker.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed idempotency store.
func NewRedisStore(client redis.UniversalClient) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	acquired, err := s.client.SetNX(ctx, key+":lock", token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	if !acquired {
		return "", false, nil
	}
	return token, true, nil
}

func (s *RedisStore) ReleaseLock(ctx context.Context, key string, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{key + ":lock"}, token).Err(); err != nil {
		return fmt.Errorf("releasing lock %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, key+":sent", time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("marking sent %s: %w", key, err)
	}
	return set, nil
}

func (s *RedisStore) WasSent(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key+":sent").Result()
	if err != nil {
		return false, fmt.Errorf("checking sent %s: %w", key, err)
	}
	return n > 0, nil
}
