// Package i18n provides the locale catalog used by structured notification
// channels (in-app, push) and by plain-text interpolation.
//
// Catalogs are nested string-keyed maps addressed with dot-separated keys,
// loaded once at startup through a TranslationAdapter (filesystem YAML/JSON
// or in-memory maps). Lookups fall back from the exact locale to its base
// language and finally to the default language.
//
// Interpolate performs the {var} substitution shared by the plain-text
// renderer: it never fails, degrades unknown value types to literal
// placeholders and leaves ICU-style brace directives untouched.
package i18n
