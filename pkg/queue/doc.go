// Package queue provides a durable task queue used to deliver notifications
// asynchronously. External channels (email, SMS, WhatsApp) are enqueued as
// tasks and drained by a Worker with bounded concurrency, per-task retry
// policies with configurable backoff, and a dead letter queue for tasks that
// exhaust their retries.
package queue
