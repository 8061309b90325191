// Package templates renders notification content per channel.
//
// Channels fall into three rendering strategies: markup channels compile and
// execute html/template files, plain-text channels perform logic-free {{var}}
// substitution over raw files, and structured channels build {title, message}
// payloads from the locale catalog with {var} interpolation.
//
// Sources and compiled templates are cached independently: the source cache
// is unbounded (the template set is small and static), the compiled cache is
// a bounded FIFO. A failed render is retried exactly once against the
// channel's generic default template before the error is surfaced.
package templates
