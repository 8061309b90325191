// Package idempotency deduplicates dispatch attempts across concurrent
// workers. Every attempt is identified by the tuple (correlation id,
// notification type, channel, recipient); a short-lived lock serialises
// in-flight attempts and a sent marker suppresses replays for the TTL.
package idempotency
