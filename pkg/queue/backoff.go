package queue

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffType selects how retry delays grow between attempts.
type BackoffType string

const (
	// BackoffExponential doubles the delay on each attempt with jitter.
	// Suited to provider outages where hammering makes things worse.
	BackoffExponential BackoffType = "exponential"

	// BackoffFixed retries at a constant interval. Suited to rate-limited
	// providers where the window resets on a fixed schedule.
	BackoffFixed BackoffType = "fixed"
)

const (
	defaultBackoffBase = 30 * time.Second
	maxBackoffDelay    = 30 * time.Minute
	jitterFactor       = 0.2
)

// RetryDelay returns how long to wait before the given attempt (1-based).
// Exponential delays carry up to 20% jitter so that a burst of failures does
// not retry in lockstep.
func RetryDelay(backoff BackoffType, base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = defaultBackoffBase
	}
	if attempt < 1 {
		attempt = 1
	}

	switch backoff {
	case BackoffFixed:
		return base
	default:
		delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
		if delay > maxBackoffDelay || delay <= 0 {
			delay = maxBackoffDelay
		}
		jitter := time.Duration(rand.Float64() * jitterFactor * float64(delay))
		return delay + jitter
	}
}
