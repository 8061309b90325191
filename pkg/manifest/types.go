package manifest

import (
	"github.com/dmitrymomot/notifykit/pkg/channel"
)

// Type identifies a notification type, e.g. "CENTER_CREATED" or "OTP_ISSUED".
type Type string

// Audience is a named recipient role that may receive different channels and
// content for the same notification type, e.g. "OWNER" or "STAFF".
type Audience string

// Manifest declares, per notification type, the per-audience channel
// configuration. Manifests are static configuration: built once at startup,
// validated, and only read afterwards.
type Manifest struct {
	Type          Type                          `yaml:"type"`
	Group         string                        `yaml:"group"`
	Priority      int                           `yaml:"priority"`
	RequiresAudit bool                          `yaml:"requires_audit"`
	TemplateBase  string                        `yaml:"template_base"`
	Audiences     map[Audience]AudienceManifest `yaml:"audiences"`
}

// AudienceManifest holds the channel set for one audience.
type AudienceManifest struct {
	Channels map[channel.Channel]ChannelManifest `yaml:"channels"`
}

// ChannelManifest configures a single channel for an audience.
type ChannelManifest struct {
	// Template is the resolved template path. When empty it is derived from
	// the manifest template base and the channel folder convention.
	Template string `yaml:"template"`

	// RequiredVariables lists template data keys that must be present before
	// rendering is attempted.
	RequiredVariables []string `yaml:"required_variables"`

	// Subject is required for the email channel.
	Subject string `yaml:"subject"`

	// WhatsAppTemplateName is the pre-approved provider template name,
	// required for the whatsapp channel.
	WhatsAppTemplateName string `yaml:"whatsapp_template_name"`
}

// MaxPriority is the highest manifest priority.
const MaxPriority = 9

// CriticalPriority marks notifications that must reach the user through an
// external channel.
const CriticalPriority = 8
