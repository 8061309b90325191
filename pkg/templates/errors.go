package templates

import "errors"

var (
	// ErrNilLoader is returned when a nil loader is provided to NewRenderer
	ErrNilLoader = errors.New("template loader cannot be nil")

	// ErrNilTranslator is returned when a nil translator is provided to NewRenderer
	ErrNilTranslator = errors.New("translator cannot be nil")

	// ErrTemplateNotFound is returned when no template source exists for a key
	ErrTemplateNotFound = errors.New("template not found")

	// ErrMissingVariables is returned when required template variables are absent
	ErrMissingVariables = errors.New("missing required template variables")

	// ErrMissingCatalogEntry is returned when a structured channel has no catalog content
	ErrMissingCatalogEntry = errors.New("missing catalog entry")

	// ErrTemplateRendering is returned when both the primary and fallback render fail
	ErrTemplateRendering = errors.New("template rendering failed")
)
