package router

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/queue"
)

// RetryPolicy controls how a channel's queued deliveries retry.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     queue.BackoffType
	Delay       time.Duration
}

// defaultRetryPolicies reflect each transport's failure profile: mail and
// push providers recover from outages (exponential), SMS and WhatsApp
// gateways throttle on fixed windows.
func defaultRetryPolicies() map[channel.Channel]RetryPolicy {
	return map[channel.Channel]RetryPolicy{
		channel.Email:    {MaxAttempts: 3, Backoff: queue.BackoffExponential, Delay: 30 * time.Second},
		channel.SMS:      {MaxAttempts: 3, Backoff: queue.BackoffFixed, Delay: time.Minute},
		channel.WhatsApp: {MaxAttempts: 5, Backoff: queue.BackoffFixed, Delay: time.Minute},
		channel.Push:     {MaxAttempts: 2, Backoff: queue.BackoffExponential, Delay: 15 * time.Second},
	}
}

// taskPriority maps a manifest priority (0..9) onto the queue's 0..100 range.
func taskPriority(p int) int {
	return min(max((p+1)*10, queue.MinPriority), queue.MaxPriority)
}
