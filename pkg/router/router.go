package router

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/idempotency"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/logstore"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// RenderFunc produces the rendered content for one channel. The facade
// supplies an implementation backed by its shared pre-render cache.
type RenderFunc func(ctx context.Context, ch channel.Channel) (*templates.Rendered, error)

// Outcome aggregates the per-channel results of one recipient's dispatch.
type Outcome struct {
	Sent    int
	Skipped int
	Failed  int
}

type channelOutcome int

const (
	outcomeSent channelOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// Router dispatches a recipient's final channel set.
type Router struct {
	store    idempotency.Store
	idemCfg  idempotency.Config
	enqueuer *queue.Enqueuer
	sender   Sender
	limiter  *ratelimit.Bucket
	logs     logstore.Store
	policies map[channel.Channel]RetryPolicy
	log      *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithSender sets the synchronous transport used for in-app delivery.
func WithSender(s Sender) Option {
	return func(r *Router) { r.sender = s }
}

// WithRateLimiter bounds in-app sends per user.
func WithRateLimiter(b *ratelimit.Bucket) Option {
	return func(r *Router) { r.limiter = b }
}

// WithLogStore records a delivery log entry per queued external send.
func WithLogStore(s logstore.Store) Option {
	return func(r *Router) { r.logs = s }
}

// WithRetryPolicy overrides the retry policy for one channel.
func WithRetryPolicy(ch channel.Channel, policy RetryPolicy) Option {
	return func(r *Router) { r.policies[ch] = policy }
}

// WithIdempotencyConfig overrides lock and marker TTLs.
func WithIdempotencyConfig(cfg idempotency.Config) Option {
	return func(r *Router) { r.idemCfg = cfg }
}

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a router.
func New(store idempotency.Store, enqueuer *queue.Enqueuer, opts ...Option) (*Router, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if enqueuer == nil {
		return nil, ErrNilEnqueuer
	}

	r := &Router{
		store:    store,
		idemCfg:  idempotency.Config{TTL: 10 * time.Minute, LockTTL: 30 * time.Second},
		enqueuer: enqueuer,
		policies: defaultRetryPolicies(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dispatch delivers the context's final channel set. Per-channel failures are
// isolated: one channel failing or skipping never affects the others.
func (r *Router) Dispatch(ctx context.Context, pctx *pipeline.Context, render RenderFunc) Outcome {
	var out Outcome
	for _, ch := range pctx.Final {
		switch r.dispatchChannel(ctx, pctx, ch, render) {
		case outcomeSent:
			out.Sent++
		case outcomeSkipped:
			out.Skipped++
		case outcomeFailed:
			out.Failed++
		}
	}
	return out
}

func (r *Router) dispatchChannel(ctx context.Context, pctx *pipeline.Context, ch channel.Channel, render RenderFunc) channelOutcome {
	log := r.log.With(
		logger.CorrelationID(pctx.CorrelationID),
		logger.NotificationType(string(pctx.Manifest.Type)),
		logger.Channel(string(ch)),
		logger.UserID(pctx.Recipient.UserID),
	)

	addr, err := ch.Address(pctx.Recipient.Email, pctx.Recipient.Phone, pctx.Recipient.UserID)
	if err != nil {
		log.WarnContext(ctx, "invalid channel recipient, skipping", logger.Error(err))
		return outcomeSkipped
	}

	key := idempotency.Key{
		CorrelationID: pctx.CorrelationID,
		Type:          string(pctx.Manifest.Type),
		Channel:       string(ch),
		Recipient:     addr,
	}.String()

	// Lock acquisition fails closed: a missing lock means another attempt is
	// already handling this exact tuple.
	token, acquired, err := r.store.AcquireLock(ctx, key, r.idemCfg.LockTTL)
	if err != nil || !acquired {
		if err != nil {
			log.WarnContext(ctx, "dispatch lock unavailable, skipping", logger.Error(err))
		}
		return outcomeSkipped
	}
	defer func() {
		if err := r.store.ReleaseLock(ctx, key, token); err != nil {
			log.WarnContext(ctx, "release dispatch lock", logger.Error(err))
		}
	}()

	// The sent check fails open: a store error must not block delivery.
	if sent, err := r.store.WasSent(ctx, key); err == nil && sent {
		log.DebugContext(ctx, "duplicate dispatch suppressed", logger.Recipient(addr))
		return outcomeSkipped
	}

	rendered, err := render(ctx, ch)
	if err != nil {
		log.ErrorContext(ctx, "render failed", logger.Error(err))
		return outcomeFailed
	}

	cm, err := manifest.ChannelConfig(pctx.Manifest, pctx.Audience, ch)
	if err != nil {
		log.ErrorContext(ctx, "resolve channel manifest", logger.Error(err))
		return outcomeFailed
	}

	payload, ok := r.assemble(ctx, pctx, ch, addr, rendered, cm, log)
	if !ok {
		return outcomeSkipped
	}

	var outcome channelOutcome
	if ch == channel.InApp {
		outcome = r.sendInApp(ctx, payload, log)
	} else {
		outcome = r.enqueue(ctx, ch, payload, log)
	}
	if outcome != outcomeSent {
		return outcome
	}

	if _, err := r.store.MarkSent(ctx, key, r.idemCfg.TTL); err != nil {
		log.WarnContext(ctx, "mark dispatch sent", logger.Error(err))
	}
	return outcomeSent
}

// assemble builds the transport payload, enforcing channel prerequisites:
// email needs a rendered subject, WhatsApp a pre-approved template name.
func (r *Router) assemble(ctx context.Context, pctx *pipeline.Context, ch channel.Channel, addr string, rendered *templates.Rendered, cm manifest.ChannelManifest, log *slog.Logger) (Payload, bool) {
	payload := Payload{
		CorrelationID: pctx.CorrelationID,
		Type:          string(pctx.Manifest.Type),
		Channel:       ch,
		Recipient:     addr,
		Subject:       rendered.Subject,
		Body:          rendered.Body,
		Structured:    rendered.Structured,
		Priority:      pctx.Manifest.Priority,
	}

	switch ch {
	case channel.Email:
		if payload.Subject == "" {
			log.ErrorContext(ctx, "email payload missing subject, skipping channel")
			return Payload{}, false
		}
	case channel.WhatsApp:
		if cm.WhatsAppTemplateName == "" {
			log.ErrorContext(ctx, "whatsapp channel missing template name, skipping channel")
			return Payload{}, false
		}
		payload.WhatsAppTemplate = cm.WhatsAppTemplateName
	}

	return payload, true
}

func (r *Router) sendInApp(ctx context.Context, payload Payload, log *slog.Logger) channelOutcome {
	if r.sender == nil {
		log.ErrorContext(ctx, "in-app send skipped", logger.Error(ErrNoSender))
		return outcomeSkipped
	}

	if r.limiter != nil {
		res, err := r.limiter.Allow(ctx, payload.Recipient)
		if err != nil {
			// Rate limit check fails open.
			log.WarnContext(ctx, "rate limit check failed", logger.Error(err))
		} else if !res.Allowed() {
			log.InfoContext(ctx, "in-app send rate limited",
				slog.Duration("retry_after", res.RetryAfter()))
			return outcomeSkipped
		}
	}

	if err := r.sender.Send(ctx, payload); err != nil {
		log.ErrorContext(ctx, "in-app send failed", logger.Error(err))
		return outcomeFailed
	}
	return outcomeSent
}

func (r *Router) enqueue(ctx context.Context, ch channel.Channel, payload Payload, log *slog.Logger) channelOutcome {
	policy, ok := r.policies[ch]
	if !ok {
		policy = RetryPolicy{MaxAttempts: 3, Backoff: queue.BackoffExponential, Delay: 30 * time.Second}
	}

	taskID, err := r.enqueuer.Enqueue(ctx, payload,
		queue.WithTaskName(deliveryTaskName(ch)),
		queue.WithQueue(string(ch)),
		queue.WithPriority(taskPriority(payload.Priority)),
		queue.WithMaxRetries(policy.MaxAttempts),
		queue.WithBackoff(policy.Backoff, policy.Delay),
	)
	if err != nil {
		log.ErrorContext(ctx, "enqueue delivery task", logger.Error(err))
		return outcomeFailed
	}

	if r.logs != nil {
		record := &logstore.Record{
			Type:      payload.Type,
			Channel:   ch,
			Recipient: payload.Recipient,
			Status:    logstore.StatusQueued,
			Metadata: map[string]any{
				"correlation_id": payload.CorrelationID,
				"task_id":        taskID.String(),
			},
		}
		if err := r.logs.Create(ctx, record); err != nil {
			log.WarnContext(ctx, "write delivery log", logger.Error(err))
		}
	}
	return outcomeSent
}
