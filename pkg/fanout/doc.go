// Package fanout runs a function over many items with bounded concurrency
// and settle-all semantics: every item produces a result, one failure never
// short-circuits the rest. The dispatch facade uses it to process recipient
// lists in parallel.
package fanout
