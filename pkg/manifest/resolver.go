package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrymomot/notifykit/pkg/channel"
)

// AudienceConfig returns the audience manifest for the given audience.
// The error lists the audiences the manifest actually declares, which turns
// a misconfigured caller into a self-explanatory failure.
func AudienceConfig(m Manifest, a Audience) (AudienceManifest, error) {
	am, ok := m.Audiences[a]
	if !ok {
		available := make([]string, 0, len(m.Audiences))
		for audience := range m.Audiences {
			available = append(available, string(audience))
		}
		sort.Strings(available)
		return AudienceManifest{}, fmt.Errorf("%w: %q for type %s (available: %s)",
			ErrAudienceNotFound, a, m.Type, strings.Join(available, ", "))
	}
	return am, nil
}

// ChannelConfig returns the channel manifest with its template path resolved.
// Resolution order: an explicit template wins, then the channel folder
// convention over the manifest template base. Channels rendered from a locale
// catalog need no file template and resolve to an empty path.
func ChannelConfig(m Manifest, a Audience, ch channel.Channel) (ChannelManifest, error) {
	am, err := AudienceConfig(m, a)
	if err != nil {
		return ChannelManifest{}, err
	}

	cm, ok := am.Channels[ch]
	if !ok {
		return ChannelManifest{}, fmt.Errorf("%w: channel %s for type %s audience %s",
			ErrChannelNotFound, ch, m.Type, a)
	}

	if cm.Template != "" {
		return cm, nil
	}

	if ch.RenderStrategy() == channel.StrategyStructured {
		return cm, nil
	}

	if m.TemplateBase == "" {
		return ChannelManifest{}, fmt.Errorf("%w: type %s audience %s channel %s",
			ErrMissingTemplatePath, m.Type, a, ch)
	}

	cm.Template = ch.Folder() + "/" + m.TemplateBase + ch.TemplateExt()
	return cm, nil
}

// Channels returns the declared channel set for an audience in a stable order.
func Channels(m Manifest, a Audience) ([]channel.Channel, error) {
	am, err := AudienceConfig(m, a)
	if err != nil {
		return nil, err
	}

	channels := make([]channel.Channel, 0, len(am.Channels))
	for ch := range am.Channels {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels, nil
}
