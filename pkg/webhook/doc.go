// Package webhook reconciles provider delivery receipts with the outbound
// delivery log. Ingestion verifies an HMAC-SHA256 signature over the raw
// request body and enqueues the payload; processing walks each status batch
// sequentially, deduplicates per (message id, status), and advances the
// matching log record.
package webhook
