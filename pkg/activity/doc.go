// Package activity tracks when users were last seen and classifies them as
// active or inactive for channel selection. The last-seen timestamp lives in
// a shared store (Redis in production); IsActive verdicts are TTL-cached per
// process to keep the selection hot path cheap.
package activity
