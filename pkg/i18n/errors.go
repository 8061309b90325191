package i18n

import "errors"

var (
	// ErrNilAdapter is returned when a nil adapter is provided to NewTranslator
	ErrNilAdapter = errors.New("translation adapter cannot be nil")

	// ErrLoadingTranslations is returned when the adapter fails to load catalogs
	ErrLoadingTranslations = errors.New("failed to load translations")
)
