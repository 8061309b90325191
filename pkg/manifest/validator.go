package manifest

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// Validate checks the registry against the set of notification types the
// application emits. In strict mode every issue is fatal; otherwise issues
// are logged as warnings and nil is returned. Production wiring should run
// strict so misconfiguration prevents startup instead of surfacing as
// per-recipient failures later.
func (r *Registry) Validate(known []Type, strict bool) error {
	var issues []error

	for _, t := range known {
		if _, ok := r.manifests[t]; !ok {
			issues = append(issues, fmt.Errorf("%w: %s", ErrManifestNotFound, t))
		}
	}

	for _, m := range r.manifests {
		issues = append(issues, validateManifest(m)...)
	}

	if len(issues) == 0 {
		return nil
	}

	if strict {
		return fmt.Errorf("%w: %w", ErrInvalidManifest, errors.Join(issues...))
	}

	for _, issue := range issues {
		r.logger.Warn("manifest validation issue",
			logger.Component("manifest"),
			logger.Error(issue),
		)
	}
	return nil
}

// MustValidate is Validate in strict mode, panicking on failure.
func (r *Registry) MustValidate(known []Type) {
	if err := r.Validate(known, true); err != nil {
		panic(err)
	}
}

func validateManifest(m Manifest) []error {
	var issues []error

	if m.Priority < 0 || m.Priority > MaxPriority {
		issues = append(issues, fmt.Errorf("manifest %s: priority %d out of range 0-%d", m.Type, m.Priority, MaxPriority))
	}
	if len(m.Audiences) == 0 {
		issues = append(issues, fmt.Errorf("manifest %s: no audiences declared", m.Type))
	}

	for audience, am := range m.Audiences {
		if len(am.Channels) == 0 {
			issues = append(issues, fmt.Errorf("manifest %s audience %s: no channels declared", m.Type, audience))
		}

		for ch, cm := range am.Channels {
			if !ch.Valid() {
				issues = append(issues, fmt.Errorf("manifest %s audience %s: unknown channel %q", m.Type, audience, ch))
				continue
			}
			if ch == channel.Email && cm.Subject == "" {
				issues = append(issues, fmt.Errorf("manifest %s audience %s: email channel without subject", m.Type, audience))
			}
			if ch == channel.WhatsApp && cm.WhatsAppTemplateName == "" {
				issues = append(issues, fmt.Errorf("manifest %s audience %s: whatsapp channel without template name", m.Type, audience))
			}
			if cm.Template == "" && m.TemplateBase == "" && ch.RenderStrategy() != channel.StrategyStructured {
				issues = append(issues, fmt.Errorf("manifest %s audience %s channel %s: no template path and no template base", m.Type, audience, ch))
			}
		}
	}

	return issues
}
