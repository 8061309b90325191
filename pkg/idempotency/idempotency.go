package idempotency

import (
	"strings"
	"time"
)

// Config holds idempotency settings.
type Config struct {
	// TTL bounds how long a dispatch attempt stays deduplicated.
	TTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"10m"`
	// LockTTL bounds how long a dispatch lock can be held before it expires
	// on its own, covering crashed holders.
	LockTTL time.Duration `env:"IDEMPOTENCY_LOCK_TTL" envDefault:"30s"`
}

// Key identifies one dispatch attempt. Two attempts with the same key are the
// same logical send and must not both go out.
type Key struct {
	CorrelationID string
	Type          string
	Channel       string
	Recipient     string
}

func (k Key) String() string {
	return strings.Join([]string{"notify", "dispatch", k.CorrelationID, k.Type, k.Channel, k.Recipient}, ":")
}
