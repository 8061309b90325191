package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryItem struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store for tests and single-process setups.
// The same atomicity contract holds: all checks and writes happen under one
// mutex.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
}

// NewMemoryStore creates an empty in-memory idempotency store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem)}
}

func (s *MemoryStore) AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockKey := key + ":lock"
	if item, ok := s.items[lockKey]; ok && time.Now().Before(item.expiresAt) {
		return "", false, nil
	}

	token := uuid.New().String()
	s.items[lockKey] = memoryItem{value: token, expiresAt: time.Now().Add(ttl)}
	return token, true, nil
}

func (s *MemoryStore) ReleaseLock(ctx context.Context, key string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockKey := key + ":lock"
	if item, ok := s.items[lockKey]; ok && item.value == token {
		delete(s.items, lockKey)
	}
	return nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentKey := key + ":sent"
	if item, ok := s.items[sentKey]; ok && time.Now().Before(item.expiresAt) {
		return false, nil
	}
	s.items[sentKey] = memoryItem{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

func (s *MemoryStore) WasSent(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key+":sent"]
	return ok && time.Now().Before(item.expiresAt), nil
}
