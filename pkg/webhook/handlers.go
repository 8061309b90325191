package webhook

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
)

// Handler serves the provider-facing webhook endpoints.
type Handler struct {
	cfg      Config
	enqueuer *queue.Enqueuer
	limiter  *ratelimit.Bucket
	log      *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimiter bounds ingest requests per remote peer.
func WithRateLimiter(b *ratelimit.Bucket) HandlerOption {
	return func(h *Handler) { h.limiter = b }
}

// WithHandlerLogger sets the logger for request diagnostics.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates the webhook HTTP handler. Received events are enqueued
// for asynchronous processing; the response never waits on reconciliation.
func NewHandler(cfg Config, enqueuer *queue.Enqueuer, opts ...HandlerOption) (*Handler, error) {
	if enqueuer == nil {
		return nil, ErrNilEnqueuer
	}
	h := &Handler{
		cfg:      cfg,
		enqueuer: enqueuer,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes returns the webhook router, ready to mount on a server.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/webhooks/chat", h.verify)
	r.Post("/webhooks/chat", h.ingest)
	return r
}

// verify implements the subscribe handshake: echo the challenge when the mode
// and pre-shared token match, otherwise refuse.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || token != h.cfg.VerifyToken {
		h.log.WarnContext(r.Context(), "webhook handshake rejected",
			slog.String("mode", mode))
		http.Error(w, ErrVerificationFailed.Error(), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}

// ingest verifies the body signature and enqueues the payload. It always
// responds 200 once the event is accepted; processing outcomes are invisible
// to the provider.
func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.limiter != nil {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if res, err := h.limiter.Allow(ctx, host); err == nil && !res.Allowed() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := VerifySignature(h.cfg.Secret, body, r.Header.Get(SignatureHeader)); err != nil {
		h.log.WarnContext(ctx, "webhook signature rejected", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if _, err := h.enqueuer.Enqueue(ctx, IngestedEvent{
		ReceivedAt: time.Now(),
		Body:       body,
	}); err != nil {
		h.log.ErrorContext(ctx, "enqueue webhook event", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
