// Package manifest provides the declarative configuration layer of the
// dispatch pipeline: which channels each notification type exposes per
// audience, what every channel requires (template, variables, subject,
// provider template name) and how severe the notification is.
//
// Manifests can be declared in code or loaded from YAML. The registry is
// built once at startup, validated against the set of notification types the
// application emits, and is immutable afterwards; resolver functions are pure
// lookups over it.
package manifest
