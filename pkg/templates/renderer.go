package templates

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/i18n"
	"github.com/dmitrymomot/notifykit/pkg/logger"
)

// DefaultCompiledCacheSize bounds the compiled-template cache.
const DefaultCompiledCacheSize = 128

// DefaultTemplateName is the generic template used as the render fallback.
const DefaultTemplateName = "default"

// catalogFallbackKey is the catalog prefix for the structured render fallback.
const catalogFallbackKey = "notifications.default"

// Plain placeholder form: {{var}}. No logic, no escaping beyond
// stringification.
var plainVarRegex = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.]*)\s*\}\}`)

// Renderer produces channel-ready content for a (type, channel, locale)
// variant. Raw sources are cached without bound (the template set is small
// and static), compiled templates in a bounded FIFO. Population is lazy and
// dogpile-free locking is intentionally not provided: loaders are idempotent
// and cheap, so concurrent misses just recompute.
type Renderer struct {
	loader     Loader
	translator *i18n.Translator
	logger     *slog.Logger

	sourceMu sync.Mutex
	sources  map[string]string

	compiled *FIFOCache[string, *template.Template]
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	logger            *slog.Logger
	compiledCacheSize int
}

// WithRendererLogger sets the logger for the Renderer.
func WithRendererLogger(logger *slog.Logger) RendererOption {
	return func(o *rendererOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCompiledCacheSize overrides the compiled-template cache bound.
func WithCompiledCacheSize(size int) RendererOption {
	return func(o *rendererOptions) {
		if size > 0 {
			o.compiledCacheSize = size
		}
	}
}

// NewRenderer creates a Renderer. The loader serves file-based channels, the
// translator serves structured channels; both are required.
func NewRenderer(loader Loader, translator *i18n.Translator, opts ...RendererOption) (*Renderer, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	if translator == nil {
		return nil, ErrNilTranslator
	}

	options := &rendererOptions{
		logger:            slog.Default(),
		compiledCacheSize: DefaultCompiledCacheSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Renderer{
		loader:     loader,
		translator: translator,
		logger:     options.logger,
		sources:    make(map[string]string),
		compiled:   NewFIFOCache[string, *template.Template](options.compiledCacheSize),
	}, nil
}

// Render renders the request, attempting the channel's generic default
// template exactly once when the primary render fails. Missing required
// variables are a configuration error surfaced immediately: falling back
// would produce content with holes in it.
func (r *Renderer) Render(ctx context.Context, req RenderRequest) (*Rendered, error) {
	if missing := missingVariables(req.RequiredVariables, req.Data); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s for template %s", ErrMissingVariables,
			strings.Join(missing, ", "), req.TemplateName)
	}

	rendered, primaryErr := r.renderVariant(ctx, req, false)
	if primaryErr == nil {
		return rendered, nil
	}

	r.logger.WarnContext(ctx, "primary template render failed, trying fallback",
		logger.NotificationType(string(req.Type)),
		logger.Channel(req.Channel),
		logger.Template(req.TemplateName),
		logger.Locale(req.Locale),
		logger.Error(primaryErr),
	)

	rendered, fallbackErr := r.renderVariant(ctx, req, true)
	if fallbackErr == nil {
		return rendered, nil
	}

	return nil, fmt.Errorf("%w: primary: %w; fallback: %w", ErrTemplateRendering, primaryErr, fallbackErr)
}

func (r *Renderer) renderVariant(ctx context.Context, req RenderRequest, fallback bool) (*Rendered, error) {
	rendered := &Rendered{
		Type:    req.Type,
		Channel: req.Channel,
		Metadata: Metadata{
			Locale:       req.Locale,
			UsedFallback: fallback,
		},
	}

	switch req.Channel.RenderStrategy() {
	case channel.StrategyMarkup, channel.StrategyPlain:
		name := req.TemplateName
		if fallback {
			name = req.Channel.Folder() + "/" + DefaultTemplateName + req.Channel.TemplateExt()
		}
		if name == "" {
			return nil, fmt.Errorf("%w: no template name for channel %s", ErrTemplateNotFound, req.Channel)
		}
		rendered.Metadata.Template = name

		source, err := r.source(ctx, Key{Locale: req.Locale, Channel: req.Channel, Name: name})
		if err != nil {
			return nil, err
		}

		if req.Channel.RenderStrategy() == channel.StrategyMarkup {
			body, err := r.executeMarkup(Key{Locale: req.Locale, Channel: req.Channel, Name: name}, source, req.Data)
			if err != nil {
				return nil, err
			}
			rendered.Body = body
		} else {
			rendered.Body = PlainSubstitute(source, req.Data)
		}

	case channel.StrategyStructured:
		structured, err := r.renderStructured(req, fallback)
		if err != nil {
			return nil, err
		}
		rendered.Structured = structured
		rendered.Metadata.Template = structuredKeyPrefix(req, fallback)

	default:
		return nil, fmt.Errorf("%w: %q", channel.ErrUnknownChannel, req.Channel)
	}

	if req.Subject != "" {
		rendered.Subject = PlainSubstitute(req.Subject, req.Data)
	}

	return rendered, nil
}

// source returns raw template source, consulting the unbounded source cache
// first.
func (r *Renderer) source(ctx context.Context, key Key) (string, error) {
	cacheKey := key.String()

	r.sourceMu.Lock()
	if src, ok := r.sources[cacheKey]; ok {
		r.sourceMu.Unlock()
		return src, nil
	}
	r.sourceMu.Unlock()

	src, err := r.loader.Load(ctx, key)
	if err != nil {
		return "", err
	}

	r.sourceMu.Lock()
	r.sources[cacheKey] = src
	r.sourceMu.Unlock()

	return src, nil
}

// executeMarkup compiles (or fetches the cached compiled form of) a markup
// template and executes it with the given data.
func (r *Renderer) executeMarkup(key Key, source string, data map[string]any) (string, error) {
	cacheKey := key.String()

	tpl, ok := r.compiled.Get(cacheKey)
	if !ok {
		var err error
		tpl, err = template.New(key.Name).Parse(source)
		if err != nil {
			return "", fmt.Errorf("compiling template %s: %w", key.Name, err)
		}
		r.compiled.Put(cacheKey, tpl)
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", key.Name, err)
	}
	return sb.String(), nil
}

// renderStructured builds content from the locale catalog. Lookup order:
// audience-specific key, then type-level key; the fallback variant reads the
// generic default keys instead.
func (r *Renderer) renderStructured(req RenderRequest, fallback bool) (*Structured, error) {
	prefix := structuredKeyPrefix(req, fallback)

	field := func(name string) (string, bool) {
		if fallback {
			return r.translator.Lookup(req.Locale, prefix+"."+name)
		}
		audienceKey := ""
		if req.Audience != "" {
			audienceKey = fmt.Sprintf("notifications.%s.%s.%s", req.Type, req.Audience, name)
		}
		return r.translator.Lookup(req.Locale, audienceKey, prefix+"."+name)
	}

	title, ok := field("title")
	if !ok {
		return nil, fmt.Errorf("%w: missing catalog key %s.title", ErrMissingCatalogEntry, prefix)
	}
	message, ok := field("message")
	if !ok {
		return nil, fmt.Errorf("%w: missing catalog key %s.message", ErrMissingCatalogEntry, prefix)
	}

	structured := &Structured{
		Title:   i18n.Interpolate(title, req.Data),
		Message: i18n.Interpolate(message, req.Data),
	}
	if v, ok := req.Data["expiresAt"]; ok {
		structured.ExpiresAt = i18n.Stringify(v)
	}

	if structured.Title == "" || structured.Message == "" {
		return nil, fmt.Errorf("%w: empty title or message for %s", ErrMissingCatalogEntry, prefix)
	}

	return structured, nil
}

func structuredKeyPrefix(req RenderRequest, fallback bool) string {
	if fallback {
		return catalogFallbackKey
	}
	return "notifications." + string(req.Type)
}

// PlainSubstitute performs logic-free {{var}} substitution. Unknown variables
// keep their placeholder; values degrade through i18n.Stringify, so this can
// never fail regardless of value types.
func PlainSubstitute(s string, vars map[string]any) string {
	return plainVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		sub := plainVarRegex.FindStringSubmatch(match)
		name := sub[1]
		if val, ok := vars[name]; ok {
			return i18n.Stringify(val)
		}
		return match
	})
}

func missingVariables(required []string, data map[string]any) []string {
	var missing []string
	for _, name := range required {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
