package logstore

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*Record),
	}
}

func (s *MemoryStore) Create(ctx context.Context, record *Record) error {
	if !record.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, record.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	stored := *record
	stored.Metadata = maps.Clone(record.Metadata)
	s.records[record.ID] = &stored
	return nil
}

func (s *MemoryStore) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Record
	for _, r := range s.records {
		if r.ProviderMessageID != providerMessageID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: provider message id %q", ErrNotFound, providerMessageID)
	}

	found := *latest
	found.Metadata = maps.Clone(latest.Metadata)
	return &found, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus, errMsg string, metadata map[string]any) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	r.Status = status
	r.Error = errMsg
	if len(metadata) > 0 {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any, len(metadata))
		}
		maps.Copy(r.Metadata, metadata)
	}
	r.UpdatedAt = time.Now()
	return nil
}
