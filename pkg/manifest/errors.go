package manifest

import "errors"

var (
	// ErrManifestNotFound is returned when no manifest exists for a notification type
	ErrManifestNotFound = errors.New("manifest not found")

	// ErrAudienceNotFound is returned when a manifest does not declare the requested audience
	ErrAudienceNotFound = errors.New("audience not found")

	// ErrChannelNotFound is returned when an audience does not declare the requested channel
	ErrChannelNotFound = errors.New("channel not configured")

	// ErrMissingTemplatePath is returned when no template path can be resolved for a channel
	ErrMissingTemplatePath = errors.New("missing template path")

	// ErrInvalidManifest is returned when manifest content fails validation
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrDuplicateManifest is returned when two manifests share a notification type
	ErrDuplicateManifest = errors.New("duplicate manifest")
)
