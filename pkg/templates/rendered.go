package templates

import (
	"regexp"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
)

// Structured is the content shape for catalog-driven channels.
type Structured struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Metadata describes how a notification was rendered.
type Metadata struct {
	Template     string
	Locale       string
	UsedFallback bool
}

// Rendered is the channel-ready output of a render call. Body carries content
// for markup and plain channels, Structured for catalog-driven channels.
type Rendered struct {
	Type       manifest.Type
	Channel    channel.Channel
	Subject    string
	Body       string
	Structured *Structured
	Metadata   Metadata
}

// Catalog placeholders left after interpolation. ICU-style directives carry
// a comma and are excluded on purpose.
var catalogVarRegex = regexp.MustCompile(`\{\s*[A-Za-z_][\w.]*\s*\}`)

// HasUnresolved reports whether any content still carries an unsubstituted
// placeholder, meaning the template referenced a variable absent from the
// render data.
func (r *Rendered) HasUnresolved() bool {
	if plainVarRegex.MatchString(r.Subject) || plainVarRegex.MatchString(r.Body) {
		return true
	}
	if r.Structured != nil {
		return catalogVarRegex.MatchString(r.Structured.Title) ||
			catalogVarRegex.MatchString(r.Structured.Message)
	}
	return false
}

// RenderRequest carries everything needed to render one (type, channel,
// locale) variant.
type RenderRequest struct {
	Type     manifest.Type
	Audience manifest.Audience
	Channel  channel.Channel
	Locale   string

	// TemplateName is the resolved template path from the manifest. Empty for
	// structured channels.
	TemplateName string

	// Subject is the manifest subject rule; placeholders are substituted with
	// the same plain rule as text templates.
	Subject string

	// RequiredVariables must all be present in Data before rendering starts.
	RequiredVariables []string

	Data map[string]any
}
