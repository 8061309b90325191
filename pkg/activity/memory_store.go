package activity

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	at        time.Time
	expiresAt time.Time
}

// MemoryStore is an in-memory Store for tests and single-process setups.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory activity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) SetLastSeen(ctx context.Context, userID string, at time.Time, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = memoryEntry{at: at, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) LastSeen(ctx context.Context, userID string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return time.Time{}, false, nil
	}
	return entry.at, true, nil
}
