package notifykit

import "errors"

var (
	// ErrMissingManifests indicates that Deps carried no notification manifests.
	ErrMissingManifests = errors.New("no notification manifests provided")

	// ErrMissingTemplates indicates that Deps carried no template loader.
	ErrMissingTemplates = errors.New("no template loader provided")

	// ErrMissingTranslations indicates that Deps carried no translation adapter.
	ErrMissingTranslations = errors.New("no translation adapter provided")
)
