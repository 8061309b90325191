// Package dispatch is the entry point of the notification system. Trigger
// validates the recipient list, resolves the manifest, runs every recipient
// through the pipeline with bounded concurrency and aggregates per-recipient
// outcomes into one BulkResult.
package dispatch
