package webhook

import "time"

// Config holds the webhook surface settings.
type Config struct {
	// Secret signs and verifies the request body HMAC.
	Secret string `env:"WEBHOOK_SECRET,required"`

	// VerifyToken is the pre-shared token echoed during the subscribe
	// handshake.
	VerifyToken string `env:"WEBHOOK_VERIFY_TOKEN,required"`

	// MaxBodyBytes bounds how much request body the ingest handler reads.
	MaxBodyBytes int64 `env:"WEBHOOK_MAX_BODY_BYTES" envDefault:"1048576"`

	// MarkerTTL bounds how long a processed (message id, status) pair stays
	// deduplicated.
	MarkerTTL time.Duration `env:"WEBHOOK_MARKER_TTL" envDefault:"24h"`

	// RateLimitCapacity and RateLimitInterval bound ingest requests per
	// remote peer.
	RateLimitCapacity int           `env:"WEBHOOK_RATELIMIT_CAPACITY" envDefault:"60"`
	RateLimitInterval time.Duration `env:"WEBHOOK_RATELIMIT_INTERVAL" envDefault:"1m"`
}
