// Package router turns a pipeline context into per-channel dispatches. Each
// enabled channel gets its own recipient address, idempotency guard, rendered
// payload and transport: in-app is rate limited and sent synchronously for
// immediate visibility, external channels are enqueued durably with a
// per-channel retry policy.
package router
