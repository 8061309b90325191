package pipeline

import (
	"maps"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
)

// RecipientInfo identifies one delivery target.
type RecipientInfo struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Locale      string `json:"locale"`
	CenterID    string `json:"centerId,omitempty"`
	ProfileType string `json:"profileType,omitempty"`
	ProfileID   string `json:"profileId,omitempty"`
}

// Context carries one recipient's dispatch state through the pipeline stages.
type Context struct {
	CorrelationID string
	Manifest      manifest.Manifest
	Audience      manifest.Audience
	Recipient     RecipientInfo
	Event         map[string]any

	// Requested restricts delivery to a subset of the manifest's channels.
	// Empty means all manifest channels.
	Requested []channel.Channel

	// Enabled is the channel set after intersecting Requested with the
	// manifest. Populated by the determine stage.
	Enabled []channel.Channel

	// Final is the channel set after activity-aware selection. Populated by
	// the select stage; this is what the router dispatches.
	Final []channel.Channel

	// TemplateData is the merged event payload plus recipient identifiers.
	// Populated by the prepare stage.
	TemplateData map[string]any
}

// prepareTemplateData merges the event payload with recipient identifiers.
// Recipient keys are namespaced so they cannot collide with event keys.
func (c *Context) prepareTemplateData() {
	data := make(map[string]any, len(c.Event)+6)
	maps.Copy(data, c.Event)

	data["recipientId"] = c.Recipient.UserID
	data["recipientPhone"] = c.Recipient.Phone
	data["recipientLocale"] = c.Recipient.Locale
	if c.Recipient.CenterID != "" {
		data["centerId"] = c.Recipient.CenterID
	}
	if c.Recipient.ProfileType != "" {
		data["profileType"] = c.Recipient.ProfileType
	}
	if c.Recipient.ProfileID != "" {
		data["profileId"] = c.Recipient.ProfileID
	}

	c.TemplateData = data
}
