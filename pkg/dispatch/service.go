package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/fanout"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/router"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// Service is the dispatch facade.
type Service struct {
	registry    *manifest.Registry
	renderer    *templates.Renderer
	pipe        *pipeline.Pipeline
	router      *router.Router
	enqueuer    *queue.Enqueuer
	concurrency int
	batchSize   int
	log         *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency bounds how many recipients are processed in parallel.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithBatchSize chunks very large recipient lists before fanning out.
// Zero disables batching.
func WithBatchSize(n int) Option {
	return func(s *Service) { s.batchSize = n }
}

// WithEnqueuer enables TriggerAsync by providing the queue to defer whole
// trigger calls onto.
func WithEnqueuer(e *queue.Enqueuer) Option {
	return func(s *Service) { s.enqueuer = e }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates the facade over its collaborators.
func New(registry *manifest.Registry, renderer *templates.Renderer, pipe *pipeline.Pipeline, r *router.Router, opts ...Option) (*Service, error) {
	if registry == nil || renderer == nil || pipe == nil || r == nil {
		return nil, ErrNilDependency
	}

	s := &Service{
		registry:    registry,
		renderer:    renderer,
		pipe:        pipe,
		router:      r,
		concurrency: fanout.DefaultConcurrency,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Trigger dispatches one notification to every recipient. Recipient
// validation failures abort the whole call; everything after that is captured
// per recipient in the result. Once recipients are submitted their dispatches
// cannot be canceled: the ctx only bounds how long the call waits, and work
// still outstanding at its deadline continues in the background, reported
// through logs instead of the returned result.
func (s *Service) Trigger(ctx context.Context, notificationType string, params Params) (*BulkResult, error) {
	started := time.Now()

	if len(params.Recipients) == 0 {
		return nil, ErrNoRecipients
	}
	if err := validateRecipients(params.Recipients); err != nil {
		return nil, err
	}

	m, err := s.registry.Get(manifest.Type(notificationType))
	if err != nil {
		return nil, err
	}
	if _, err := manifest.AudienceConfig(m, params.Audience); err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	result := &BulkResult{
		Total:         len(params.Recipients),
		CorrelationID: correlationID,
	}

	unique, duplicates := dedupeRecipients(params.Recipients)

	// Dispatch work is detached from the caller's deadline: renders and
	// enqueues in flight must complete even when the caller stops waiting.
	work := context.WithoutCancel(ctx)

	cache := newRenderCache()
	s.preRender(work, m, params, unique, cache)

	agg := newAggregate()
	done := make(chan struct{})
	go func() {
		defer close(done)
		outcomes := fanout.ProcessBatched(work, unique, s.concurrency, s.batchSize,
			func(ctx context.Context, r pipeline.RecipientInfo) (router.Outcome, error) {
				out, err := s.processRecipient(ctx, m, params, correlationID, r, cache)
				agg.record(r.UserID, out, err)
				return out, err
			})
		// Panicked recipients never reach the in-flight record above; the
		// settled outcomes fill them in (record ignores seen user ids).
		for _, o := range outcomes {
			agg.record(o.Item.UserID, o.Value, o.Err)
		}

		sent, failed, skipped, _ := agg.snapshot()
		s.log.InfoContext(work, "bulk dispatch finished",
			logger.CorrelationID(correlationID),
			logger.NotificationType(notificationType),
			logger.Audience(string(params.Audience)),
			slog.Int("total", result.Total),
			slog.Int("sent", sent),
			slog.Int("failed", failed),
			slog.Int("skipped", skipped+duplicates),
			logger.Duration(time.Since(started)),
		)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.WarnContext(work, "trigger deadline reached, dispatch continues in background",
			logger.CorrelationID(correlationID),
			logger.NotificationType(notificationType),
		)
	}

	sent, failed, skipped, errs := agg.snapshot()
	result.Sent = sent
	result.Failed = failed
	result.Skipped = skipped + duplicates
	result.Errors = errs
	result.Duration = time.Since(started)
	return result, nil
}

// aggregate accumulates per-recipient outcomes as they settle, so a caller
// that stops waiting still gets a consistent snapshot of what finished.
type aggregate struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	sent    int
	failed  int
	skipped int
	errs    []RecipientError
}

func newAggregate() *aggregate {
	return &aggregate{seen: make(map[string]struct{})}
}

func (a *aggregate) record(userID string, out router.Outcome, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[userID]; ok {
		return
	}
	a.seen[userID] = struct{}{}

	switch {
	case errors.Is(err, pipeline.ErrNoChannels):
		a.skipped++
	case errors.Is(err, fanout.ErrPanicked):
		a.failed++
		a.errs = append(a.errs, RecipientError{Recipient: userID, Code: CodePanic, Err: err.Error()})
	case err != nil:
		a.failed++
		a.errs = append(a.errs, RecipientError{Recipient: userID, Code: CodePipeline, Err: err.Error()})
	case out.Sent > 0:
		a.sent++
	case out.Failed > 0:
		a.failed++
		a.errs = append(a.errs, RecipientError{
			Recipient: userID, Code: CodeDispatch,
			Err: fmt.Sprintf("all %d channel dispatches failed", out.Failed),
		})
	default:
		a.skipped++
	}
}

func (a *aggregate) snapshot() (sent, failed, skipped int, errs []RecipientError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.sent, a.failed, a.skipped, slices.Clone(a.errs)
}

func (s *Service) processRecipient(ctx context.Context, m manifest.Manifest, params Params, correlationID string, r pipeline.RecipientInfo, cache *renderCache) (router.Outcome, error) {
	pctx := &pipeline.Context{
		CorrelationID: correlationID,
		Manifest:      m,
		Audience:      params.Audience,
		Recipient:     r,
		Event:         params.Event,
		Requested:     params.Channels,
	}
	if err := s.pipe.Run(ctx, pctx); err != nil {
		return router.Outcome{}, err
	}

	// Only pre-rendered content lives in the shared cache: a render from the
	// full template data is recipient-specific and must never be served to
	// anyone else.
	hash := dataHash(m.Type, r.Locale, params.Audience, params.Event)
	render := func(ctx context.Context, ch channel.Channel) (*templates.Rendered, error) {
		if rendered, ok := cache.get(cacheKey(m.Type, ch, r.Locale, hash)); ok {
			return rendered, nil
		}
		return s.render(ctx, m, params.Audience, ch, r.Locale, pctx.TemplateData)
	}

	return s.router.Dispatch(ctx, pctx, render), nil
}

// preRender warms the shared cache once per (channel, locale) using the event
// payload alone. Templates needing recipient-scoped variables either fail
// here or come back with their placeholders intact; both cases stay out of
// the cache and fall back to per-recipient rendering on the miss.
func (s *Service) preRender(ctx context.Context, m manifest.Manifest, params Params, recipients []pipeline.RecipientInfo, cache *renderCache) {
	declared, err := manifest.Channels(m, params.Audience)
	if err != nil {
		return
	}

	seen := make(map[string]struct{})
	for _, r := range recipients {
		if _, ok := seen[r.Locale]; ok {
			continue
		}
		seen[r.Locale] = struct{}{}

		hash := dataHash(m.Type, r.Locale, params.Audience, params.Event)
		for _, ch := range declared {
			rendered, err := s.render(ctx, m, params.Audience, ch, r.Locale, params.Event)
			if err != nil {
				s.log.DebugContext(ctx, "pre-render skipped",
					logger.Channel(string(ch)), logger.Locale(r.Locale), logger.Error(err))
				continue
			}
			if rendered.HasUnresolved() {
				s.log.DebugContext(ctx, "pre-render needs recipient data, not cached",
					logger.Channel(string(ch)), logger.Locale(r.Locale))
				continue
			}
			cache.put(cacheKey(m.Type, ch, r.Locale, hash), rendered)
		}
	}
}

func (s *Service) render(ctx context.Context, m manifest.Manifest, audience manifest.Audience, ch channel.Channel, locale string, data map[string]any) (*templates.Rendered, error) {
	cm, err := manifest.ChannelConfig(m, audience, ch)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(ctx, templates.RenderRequest{
		Type:              m.Type,
		Audience:          audience,
		Channel:           ch,
		Locale:            locale,
		TemplateName:      cm.Template,
		Subject:           cm.Subject,
		RequiredVariables: cm.RequiredVariables,
		Data:              data,
	})
}

// dedupeRecipients keeps the first occurrence of every user id.
func dedupeRecipients(recipients []pipeline.RecipientInfo) ([]pipeline.RecipientInfo, int) {
	seen := make(map[string]struct{}, len(recipients))
	unique := make([]pipeline.RecipientInfo, 0, len(recipients))
	for _, r := range recipients {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		unique = append(unique, r)
	}
	return unique, len(recipients) - len(unique)
}

// triggerJob is the queue payload for deferred trigger calls.
type triggerJob struct {
	Type   string `json:"type"`
	Params Params `json:"params"`
}

// TriggerAsync defers the whole trigger call onto the worker pool. Failures
// surface in the worker's logs rather than the caller.
func (s *Service) TriggerAsync(ctx context.Context, notificationType string, params Params) error {
	if s.enqueuer == nil {
		return ErrNilDependency
	}
	_, err := s.enqueuer.Enqueue(ctx, triggerJob{Type: notificationType, Params: params})
	return err
}

// TriggerJobHandler returns the queue handler that executes deferred trigger
// calls. Register it on the worker alongside the delivery handlers.
func (s *Service) TriggerJobHandler() queue.Handler {
	return queue.NewTaskHandler(func(ctx context.Context, job triggerJob) error {
		result, err := s.Trigger(ctx, job.Type, job.Params)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			s.log.WarnContext(ctx, "deferred dispatch had failures",
				logger.CorrelationID(result.CorrelationID),
				slog.Int("failed", result.Failed))
		}
		return nil
	})
}
