package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
)

// Pipeline advances a recipient Context through the dispatch stages.
type Pipeline struct {
	selector Selector
	log      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSelector sets the channel selector. Without one the enabled set is
// used as-is.
func WithSelector(s Selector) Option {
	return func(p *Pipeline) {
		p.selector = s
	}
}

// WithLogger sets the logger for stage diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the stages in order. Stages mutate pctx; on return with a nil
// error, pctx.Final and pctx.TemplateData are ready for the router.
// ErrNoChannels means there is nothing to deliver, which callers should count
// as a skip.
func (p *Pipeline) Run(ctx context.Context, pctx *Context) error {
	if err := p.extract(pctx); err != nil {
		return err
	}
	if err := p.determineChannels(ctx, pctx); err != nil {
		return err
	}
	if len(pctx.Enabled) == 0 {
		return ErrNoChannels
	}
	p.selectChannels(ctx, pctx)
	pctx.prepareTemplateData()
	return nil
}

// extract validates the recipient fields the rest of the flow depends on.
func (p *Pipeline) extract(pctx *Context) error {
	if pctx.Manifest.Type == "" {
		return ErrNilManifest
	}
	if pctx.Recipient.Phone == "" {
		return fmt.Errorf("%w: user %s", ErrMissingPhone, pctx.Recipient.UserID)
	}
	return nil
}

// determineChannels intersects the requested channels with the manifest's
// declared set. Unknown requested channels are logged, not fatal. An empty
// intersection falls back to the full manifest set.
func (p *Pipeline) determineChannels(ctx context.Context, pctx *Context) error {
	declared, err := manifest.Channels(pctx.Manifest, pctx.Audience)
	if err != nil {
		return err
	}

	if len(pctx.Requested) == 0 {
		pctx.Enabled = declared
		return nil
	}

	enabled := make([]channel.Channel, 0, len(pctx.Requested))
	for _, ch := range pctx.Requested {
		if !slices.Contains(declared, ch) {
			p.log.WarnContext(ctx, "requested channel not declared in manifest",
				logger.NotificationType(string(pctx.Manifest.Type)),
				logger.Channel(string(ch)))
			continue
		}
		enabled = append(enabled, ch)
	}
	if len(enabled) == 0 {
		enabled = declared
	}
	pctx.Enabled = enabled
	return nil
}

// selectChannels delegates to the selector, failing open on its absence.
func (p *Pipeline) selectChannels(ctx context.Context, pctx *Context) {
	if p.selector == nil {
		pctx.Final = slices.Clone(pctx.Enabled)
		return
	}
	pctx.Final = p.selector.Select(ctx, pctx.Recipient.UserID, pctx.Enabled,
		pctx.Manifest.Priority, pctx.Manifest.RequiresAudit)
	if len(pctx.Final) == 0 && len(pctx.Enabled) > 0 {
		pctx.Final = slices.Clone(pctx.Enabled)
	}
}
