package manifest

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry is an immutable process-wide collection of manifests. All
// manifests are loaded and validated at startup; lookups never mutate state,
// so the registry is safe for concurrent use without locking.
type Registry struct {
	manifests map[Type]Manifest
	logger    *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used by the startup validator.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry builds a registry from the given manifests.
// Duplicate notification types are rejected.
func NewRegistry(manifests []Manifest, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		manifests: make(map[Type]Manifest, len(manifests)),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, m := range manifests {
		if m.Type == "" {
			return nil, fmt.Errorf("%w: manifest without type", ErrInvalidManifest)
		}
		if _, exists := r.manifests[m.Type]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateManifest, m.Type)
		}
		r.manifests[m.Type] = m
	}

	return r, nil
}

// LoadYAML parses a manifest list from YAML.
func LoadYAML(src io.Reader) ([]Manifest, error) {
	var doc struct {
		Manifests []Manifest `yaml:"manifests"`
	}
	if err := yaml.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return doc.Manifests, nil
}

// Get returns the manifest for a notification type.
func (r *Registry) Get(t Type) (Manifest, error) {
	m, ok := r.manifests[t]
	if !ok {
		return Manifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, t)
	}
	return m, nil
}

// Types returns every registered notification type in a stable order.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.manifests))
	for t := range r.manifests {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Len returns the number of registered manifests.
func (r *Registry) Len() int {
	return len(r.manifests)
}
