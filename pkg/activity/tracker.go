package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Config holds activity tracking configuration.
type Config struct {
	// InactivityThreshold is how long since last seen before a user counts as
	// inactive.
	InactivityThreshold time.Duration `env:"ACTIVITY_INACTIVITY_THRESHOLD" envDefault:"72h"`
	// CacheTTL bounds how long an IsActive verdict is reused in-process.
	CacheTTL time.Duration `env:"ACTIVITY_CACHE_TTL" envDefault:"5m"`
	// RetentionTTL is how long last-seen records are kept in the shared store.
	RetentionTTL time.Duration `env:"ACTIVITY_RETENTION_TTL" envDefault:"2160h"`
}

// Store persists last-seen timestamps in a store shared across workers.
type Store interface {
	// SetLastSeen records when the user was last active.
	SetLastSeen(ctx context.Context, userID string, at time.Time, ttl time.Duration) error

	// LastSeen returns the recorded timestamp. The boolean is false when the
	// user has no record.
	LastSeen(ctx context.Context, userID string) (time.Time, bool, error)
}

type cachedVerdict struct {
	active    bool
	expiresAt time.Time
}

// Tracker answers "is this user active?" for channel selection. Verdicts are
// TTL-cached per process; the authoritative last-seen timestamp lives in the
// shared store so all workers agree.
type Tracker struct {
	store  Store
	config Config
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedVerdict
	now   func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger sets the logger for the Tracker.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store Store, config Config, opts ...TrackerOption) (*Tracker, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	t := &Tracker{
		store:  store,
		config: config,
		logger: slog.Default(),
		cache:  make(map[string]cachedVerdict),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Touch records that the user is active right now and drops any cached
// verdict so the change is visible immediately.
func (t *Tracker) Touch(ctx context.Context, userID string) error {
	if err := t.store.SetLastSeen(ctx, userID, t.now(), t.config.RetentionTTL); err != nil {
		return err
	}

	t.mu.Lock()
	delete(t.cache, userID)
	t.mu.Unlock()
	return nil
}

// IsActive reports whether the user was seen within the inactivity threshold.
// Users without a last-seen record count as inactive. Store errors propagate
// so callers can decide their own failure posture.
func (t *Tracker) IsActive(ctx context.Context, userID string) (bool, error) {
	now := t.now()

	t.mu.Lock()
	if verdict, ok := t.cache[userID]; ok && now.Before(verdict.expiresAt) {
		t.mu.Unlock()
		return verdict.active, nil
	}
	t.mu.Unlock()

	lastSeen, found, err := t.store.LastSeen(ctx, userID)
	if err != nil {
		return false, err
	}

	active := found && now.Sub(lastSeen) <= t.config.InactivityThreshold

	t.mu.Lock()
	t.cache[userID] = cachedVerdict{active: active, expiresAt: now.Add(t.config.CacheTTL)}
	t.mu.Unlock()

	return active, nil
}
