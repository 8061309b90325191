// Package httpserver runs the provider-facing webhook surface: a thin
// net/http wrapper with graceful shutdown, configurable timeouts and a
// health probe handler for liveness and readiness checks.
package httpserver
