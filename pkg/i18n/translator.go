package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no better match exists for a locale.
const DefaultLanguage = "en"

// TranslationAdapter loads translations from some source.
// The outer map is keyed by language code, the inner maps are arbitrarily
// nested string-keyed maps addressed with dot-separated keys.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// Translator resolves catalog keys with locale fallback. It is read-only
// after construction and safe for concurrent use.
type Translator struct {
	translations map[string]map[string]any
	defaultLang  string
	logger       *slog.Logger
	mu           sync.RWMutex
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaultLanguage overrides the fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// WithLogger sets the logger used for missing-translation reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTranslator creates a Translator from the given adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang: DefaultLanguage,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingTranslations, err)
	}
	for lang, m := range translations {
		if lang == "" {
			return nil, fmt.Errorf("%w: empty language code", ErrLoadingTranslations)
		}
		if m == nil {
			return nil, fmt.Errorf("%w: nil translations for language %s", ErrLoadingTranslations, lang)
		}
	}

	t.translations = translations
	t.logger.InfoContext(ctx, "translations loaded", "languages", t.SupportedLanguages())
	return t, nil
}

// SupportedLanguages returns a sorted list of loaded language codes.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// T returns the raw catalog value for the key in the best-matching language.
// Fallback order: exact locale, base language of the locale, default language.
func (t *Translator) T(locale, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, lang := range t.fallbackChain(locale) {
		langMap, ok := t.translations[lang]
		if !ok {
			continue
		}
		if val, ok := lookupNested(langMap, key); ok {
			if s, ok := val.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// Lookup tries keys in order and returns the first hit.
// Used for audience-specific catalog keys with a type-level fallback.
func (t *Translator) Lookup(locale string, keys ...string) (string, bool) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if s, ok := t.T(locale, key); ok {
			return s, true
		}
	}
	return "", false
}

// fallbackChain derives the lookup order for a locale. A regional tag like
// "pt-BR" falls back to "pt" before the default language.
func (t *Translator) fallbackChain(locale string) []string {
	chain := make([]string, 0, 3)

	locale = strings.TrimSpace(locale)
	if locale != "" {
		chain = append(chain, locale)
		if tag, err := language.Parse(locale); err == nil {
			if base, conf := tag.Base(); conf != language.No {
				if baseLang := base.String(); baseLang != locale {
					chain = append(chain, baseLang)
				}
			}
		}
	}

	for _, lang := range chain {
		if lang == t.defaultLang {
			return chain
		}
	}
	return append(chain, t.defaultLang)
}

// lookupNested traverses a nested map using dot-separated keys.
// For example "notifications.CENTER_CREATED.title" traverses three levels.
func lookupNested(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		if i == len(parts)-1 {
			val, ok := current[part]
			return val, ok
		}

		next, ok := current[part]
		if !ok {
			return nil, false
		}

		currentMap, ok := next.(map[string]any)
		if !ok {
			anyMap, isAnyMap := next.(map[any]any)
			if !isAnyMap {
				return nil, false
			}

			currentMap = make(map[string]any, len(anyMap))
			for k, v := range anyMap {
				if ks, ok := k.(string); ok {
					currentMap[ks] = v
				}
			}
		}

		current = currentMap
	}

	return nil, false
}
