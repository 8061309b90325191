// Package ratelimit implements a token bucket rate limiter used to bound
// synchronous in-app notification sends per user. Buckets refill lazily on
// access; stale buckets are swept by a background cleanup goroutine.
package ratelimit
