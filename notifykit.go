package notifykit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/activity"
	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/i18n"
	"github.com/dmitrymomot/notifykit/pkg/idempotency"
	"github.com/dmitrymomot/notifykit/pkg/logstore"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
	"github.com/dmitrymomot/notifykit/pkg/redis"
	"github.com/dmitrymomot/notifykit/pkg/router"
	"github.com/dmitrymomot/notifykit/pkg/templates"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

// TransportFunc delivers one queued payload over an external provider.
type TransportFunc func(ctx context.Context, payload router.Payload) error

// Deps carries the application-supplied pieces the stack cannot construct
// itself: the notification catalog, template and translation sources, and
// the provider transports.
type Deps struct {
	Manifests    []manifest.Manifest
	Templates    templates.Loader
	Translations i18n.TranslationAdapter

	// InApp receives synchronous in-app sends. Optional; without it in-app
	// deliveries are skipped.
	InApp router.Sender

	// Transports maps queued channels to their delivery functions. A channel
	// without a transport keeps its tasks pending until a worker with one
	// picks them up.
	Transports map[channel.Channel]TransportFunc

	Logger *slog.Logger
}

// App is the assembled notification stack.
type App struct {
	// Dispatch triggers notifications; Tracker records recipient activity;
	// Reconciler answers webhook reconciliation queries such as OrphanCount.
	Dispatch   *dispatch.Service
	Tracker    *activity.Tracker
	Reconciler *webhook.Processor

	// Logs exposes the delivery log for status queries.
	Logs logstore.Store

	webhooks *webhook.Handler
	worker   *queue.Worker
	server   *httpserver.Server
	pool     *pgxpool.Pool
	rdb      *goredis.Client
	limiters []*ratelimit.MemoryStore
	log      *slog.Logger
}

// New connects to Postgres and Redis and wires the full dispatch stack from
// cfg and deps. Call Close when done with the returned App.
func New(ctx context.Context, cfg Config, deps Deps) (*App, error) {
	switch {
	case len(deps.Manifests) == 0:
		return nil, ErrMissingManifests
	case deps.Templates == nil:
		return nil, ErrMissingTemplates
	case deps.Translations == nil:
		return nil, ErrMissingTranslations
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return nil, err
	}
	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, err
	}

	app := &App{pool: pool, rdb: rdb, log: log}
	if err := app.wire(ctx, cfg, deps); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(ctx context.Context, cfg Config, deps Deps) error {
	logs, err := logstore.NewPGStore(a.pool)
	if err != nil {
		return err
	}
	a.Logs = logs

	idem, err := idempotency.NewRedisStore(a.rdb)
	if err != nil {
		return err
	}

	seen, err := activity.NewRedisStore(a.rdb)
	if err != nil {
		return err
	}
	tracker, err := activity.NewTracker(seen, cfg.Activity, activity.WithTrackerLogger(a.log))
	if err != nil {
		return err
	}
	a.Tracker = tracker

	registry, err := manifest.NewRegistry(deps.Manifests)
	if err != nil {
		return err
	}
	translator, err := i18n.NewTranslator(ctx, deps.Translations)
	if err != nil {
		return err
	}
	renderer, err := templates.NewRenderer(deps.Templates, translator, templates.WithRendererLogger(a.log))
	if err != nil {
		return err
	}

	repo := queue.NewMemoryRepository()
	enqueuer, err := queue.NewEnqueuer(repo,
		queue.WithDefaultMaxRetries(cfg.Queue.MaxRetries),
		queue.WithDefaultBackoff(queue.BackoffExponential, cfg.Queue.BackoffBase),
	)
	if err != nil {
		return err
	}

	routerOpts := []router.Option{
		router.WithLogStore(logs),
		router.WithIdempotencyConfig(cfg.Idempotency),
		router.WithLogger(a.log),
	}
	if deps.InApp != nil {
		limiter, err := a.newLimiter(cfg.InAppRate)
		if err != nil {
			return err
		}
		routerOpts = append(routerOpts,
			router.WithSender(deps.InApp),
			router.WithRateLimiter(limiter),
		)
	}
	rt, err := router.New(idem, enqueuer, routerOpts...)
	if err != nil {
		return err
	}

	pipe := pipeline.New(
		pipeline.WithSelector(pipeline.NewChannelSelector(tracker, a.log)),
		pipeline.WithLogger(a.log),
	)

	a.Dispatch, err = dispatch.New(registry, renderer, pipe, rt,
		dispatch.WithConcurrency(cfg.Concurrency),
		dispatch.WithBatchSize(cfg.BatchSize),
		dispatch.WithEnqueuer(enqueuer),
		dispatch.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	a.Reconciler, err = webhook.NewProcessor(logs, idem,
		webhook.WithMarkerTTL(cfg.Webhook.MarkerTTL),
		webhook.WithProcessorLogger(a.log),
	)
	if err != nil {
		return err
	}

	handlerOpts := []webhook.HandlerOption{webhook.WithHandlerLogger(a.log)}
	if cfg.Webhook.RateLimitCapacity > 0 {
		limiter, err := a.newLimiter(ratelimit.Config{
			Capacity:       cfg.Webhook.RateLimitCapacity,
			RefillRate:     cfg.Webhook.RateLimitCapacity,
			RefillInterval: cfg.Webhook.RateLimitInterval,
		})
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, webhook.WithRateLimiter(limiter))
	}
	a.webhooks, err = webhook.NewHandler(cfg.Webhook, enqueuer, handlerOpts...)
	if err != nil {
		return err
	}

	handlers := []queue.Handler{
		queue.NewTaskHandler(a.Reconciler.HandleIngested),
		a.Dispatch.TriggerJobHandler(),
	}
	for ch, fn := range deps.Transports {
		handlers = append(handlers, router.NewDeliveryHandler(ch, fn))
	}
	a.worker, err = queue.NewWorker(repo, handlers,
		queue.WithConcurrency(cfg.Queue.Concurrency),
		queue.WithPollInterval(cfg.Queue.PollInterval),
		queue.WithWorkerLogger(a.log),
	)
	if err != nil {
		return err
	}

	a.server = httpserver.New(cfg.HTTP, httpserver.WithLogger(a.log))
	return nil
}

func (a *App) newLimiter(cfg ratelimit.Config) (*ratelimit.Bucket, error) {
	store := ratelimit.NewMemoryStore()
	bucket, err := ratelimit.NewBucket(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	a.limiters = append(a.limiters, store)
	return bucket, nil
}

// Routes returns the HTTP surface: health probes plus the webhook endpoints
// at /webhooks/chat.
func (a *App) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, a.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, a.log,
		pg.Healthcheck(a.pool),
		redis.Healthcheck(a.rdb),
	))
	r.Mount("/", a.webhooks.Routes())
	return r
}

// Run serves HTTP and processes queued tasks until ctx is canceled or either
// component fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.worker.Run(ctx) })
	g.Go(func() error { return a.server.Run(ctx, a.Routes(ctx)) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases the database pool, the Redis client and rate limiter state.
// It does not stop a running Run; cancel its context first.
func (a *App) Close() {
	for _, store := range a.limiters {
		store.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
