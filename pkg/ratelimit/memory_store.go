package ratelimit

import (
	"context"
	"sync"
	"time"
)

// entry tracks one key's bucket state. An absent entry means a full bucket,
// so the map only holds keys that spent tokens recently; fullAt marks when
// the entry becomes equivalent to absent and may be dropped by the sweeper.
type entry struct {
	tokens int
	synced time.Time // start of the current refill interval
	fullAt time.Time
}

// MemoryStore keeps bucket state in process memory. Good for single-process
// wiring and tests; deployments with several workers need a shared store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry

	sweepEvery time.Duration
	done       chan struct{}
	closeOnce  sync.Once
	now        func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often refilled buckets are swept out of
// memory. Zero disables sweeping.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepEvery = interval
	}
}

// WithStoreClock overrides the time source.
func WithStoreClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates an in-memory store. Call Close to stop the sweeper.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:    make(map[string]*entry),
		sweepEvery: 5 * time.Minute,
		done:       make(chan struct{}),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}

	if ms.sweepEvery > 0 {
		go ms.sweep()
	}
	return ms
}

// ConsumeTokens credits elapsed refill intervals, then consumes the requested
// amount. A drained bucket reports the deficit as a negative remainder
// without consuming anything, so hammering it does not push the refill
// further out.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	e, ok := ms.entries[key]
	if !ok {
		e = &entry{tokens: config.Capacity, synced: now}
		ms.entries[key] = e
	} else {
		e.refill(now, config)
	}

	if e.tokens < tokens {
		remaining = e.tokens - tokens
	} else {
		e.tokens -= tokens
		remaining = e.tokens
	}
	e.fullAt = e.refilledAt(config)

	return remaining, e.synced.Add(config.RefillInterval), nil
}

// Reset forgets the key, restoring a full bucket.
func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

// Len reports how many keys currently hold bucket state.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.entries)
}

// Close stops the sweeper. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() { close(ms.done) })
}

// refill credits whole elapsed intervals. The in-progress interval's
// remainder stays on synced, so repeated calls cannot stretch the refill
// schedule.
func (e *entry) refill(now time.Time, config Config) {
	intervals := int(now.Sub(e.synced) / config.RefillInterval)
	if intervals <= 0 {
		return
	}

	if intervals >= e.intervalsToFull(config) {
		e.tokens = config.Capacity
		e.synced = now
		return
	}

	e.tokens += intervals * config.RefillRate
	e.synced = e.synced.Add(time.Duration(intervals) * config.RefillInterval)
}

// refilledAt is the moment the bucket is back at capacity and the entry
// carries no information anymore.
func (e *entry) refilledAt(config Config) time.Time {
	return e.synced.Add(time.Duration(e.intervalsToFull(config)) * config.RefillInterval)
}

func (e *entry) intervalsToFull(config Config) int {
	deficit := config.Capacity - e.tokens
	if deficit <= 0 {
		return 0
	}
	return (deficit + config.RefillRate - 1) / config.RefillRate
}

func (ms *MemoryStore) sweep() {
	ticker := time.NewTicker(ms.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			ms.dropRefilled()
		}
	}
}

func (ms *MemoryStore) dropRefilled() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, e := range ms.entries {
		if !now.Before(e.fullAt) {
			delete(ms.entries, key)
		}
	}
}
