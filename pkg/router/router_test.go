package router_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/idempotency"
	"github.com/dmitrymomot/notifykit/pkg/logstore"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/ratelimit"
	"github.com/dmitrymomot/notifykit/pkg/router"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

type capturingSender struct {
	payloads []router.Payload
	err      error
}

func (s *capturingSender) Send(ctx context.Context, payload router.Payload) error {
	if s.err != nil {
		return s.err
	}
	s.payloads = append(s.payloads, payload)
	return nil
}

func testRender(subject string) router.RenderFunc {
	return func(ctx context.Context, ch channel.Channel) (*templates.Rendered, error) {
		rendered := &templates.Rendered{
			Channel: ch,
			Subject: subject,
			Body:    "hello",
		}
		if ch.RenderStrategy() == channel.StrategyStructured {
			rendered.Body = ""
			rendered.Structured = &templates.Structured{Title: "Hi", Message: "hello"}
		}
		return rendered, nil
	}
}

func testPipelineContext(channels ...channel.Channel) *pipeline.Context {
	audiences := map[manifest.Audience]manifest.AudienceManifest{
		"staff": {Channels: map[channel.Channel]manifest.ChannelManifest{
			channel.Email:    {Subject: "Hi {{name}}"},
			channel.SMS:      {},
			channel.WhatsApp: {WhatsAppTemplateName: "appointment_reminder_v2"},
			channel.InApp:    {},
		}},
	}
	return &pipeline.Context{
		CorrelationID: "corr-1",
		Manifest: manifest.Manifest{
			Type:         "appointment_reminder",
			Priority:     5,
			TemplateBase: "appointment-reminder",
			Audiences:    audiences,
		},
		Audience: "staff",
		Recipient: pipeline.RecipientInfo{
			UserID: "user-1",
			Email:  "user@example.com",
			Phone:  "+14155550123",
			Locale: "en",
		},
		Final: channels,
	}
}

func newRouter(t *testing.T, repo *queue.MemoryRepository, opts ...router.Option) *router.Router {
	t.Helper()

	enq, err := queue.NewEnqueuer(repo)
	require.NoError(t, err)

	r, err := router.New(idempotency.NewMemoryStore(), enq, opts...)
	require.NoError(t, err)
	return r
}

func TestDispatchEnqueuesExternalChannel(t *testing.T) {
	t.Parallel()

	repo := queue.NewMemoryRepository()
	logs := logstore.NewMemoryStore()
	r := newRouter(t, repo, router.WithLogStore(logs))

	out := r.Dispatch(context.Background(), testPipelineContext(channel.Email), testRender("Subject"))
	assert.Equal(t, router.Outcome{Sent: 1}, out)

	task, err := repo.ClaimTask(context.Background(), []string{"email"})
	require.NoError(t, err)
	assert.Equal(t, "deliver.email", task.Name)
	assert.Equal(t, 60, task.Priority, "manifest priority 5 maps to 60")
	assert.Equal(t, 3, task.MaxRetries)
}

func TestDispatchSuppressesDuplicates(t *testing.T) {
	t.Parallel()

	repo := queue.NewMemoryRepository()
	r := newRouter(t, repo)
	pctx := testPipelineContext(channel.SMS)

	first := r.Dispatch(context.Background(), pctx, testRender(""))
	assert.Equal(t, router.Outcome{Sent: 1}, first)

	second := r.Dispatch(context.Background(), pctx, testRender(""))
	assert.Equal(t, router.Outcome{Skipped: 1}, second, "same correlation tuple dispatches once")
}

func TestDispatchEmailWithoutSubjectSkips(t *testing.T) {
	t.Parallel()

	r := newRouter(t, queue.NewMemoryRepository())

	out := r.Dispatch(context.Background(), testPipelineContext(channel.Email), testRender(""))
	assert.Equal(t, router.Outcome{Skipped: 1}, out)
}

func TestDispatchWhatsAppCarriesTemplateName(t *testing.T) {
	t.Parallel()

	repo := queue.NewMemoryRepository()
	r := newRouter(t, repo)

	out := r.Dispatch(context.Background(), testPipelineContext(channel.WhatsApp), testRender(""))
	assert.Equal(t, router.Outcome{Sent: 1}, out)

	task, err := repo.ClaimTask(context.Background(), []string{"whatsapp"})
	require.NoError(t, err)
	assert.Contains(t, string(task.Payload), "appointment_reminder_v2")
}

func TestDispatchWhatsAppWithoutTemplateNameSkips(t *testing.T) {
	t.Parallel()

	r := newRouter(t, queue.NewMemoryRepository())
	pctx := testPipelineContext(channel.WhatsApp)
	am := pctx.Manifest.Audiences["staff"]
	am.Channels[channel.WhatsApp] = manifest.ChannelManifest{}

	out := r.Dispatch(context.Background(), pctx, testRender(""))
	assert.Equal(t, router.Outcome{Skipped: 1}, out)
}

func TestDispatchInAppSendsSynchronously(t *testing.T) {
	t.Parallel()

	sender := &capturingSender{}
	r := newRouter(t, queue.NewMemoryRepository(), router.WithSender(sender))

	out := r.Dispatch(context.Background(), testPipelineContext(channel.InApp), testRender(""))
	assert.Equal(t, router.Outcome{Sent: 1}, out)

	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "user-1", sender.payloads[0].Recipient)
	require.NotNil(t, sender.payloads[0].Structured)
	assert.Equal(t, "Hi", sender.payloads[0].Structured.Title)
}

func TestDispatchInAppRateLimited(t *testing.T) {
	t.Parallel()

	store := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	bucket, err := ratelimit.NewBucket(store, ratelimit.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)

	sender := &capturingSender{}
	r := newRouter(t, queue.NewMemoryRepository(),
		router.WithSender(sender),
		router.WithRateLimiter(bucket),
	)

	pctx := testPipelineContext(channel.InApp)
	out := r.Dispatch(context.Background(), pctx, testRender(""))
	assert.Equal(t, router.Outcome{Sent: 1}, out)

	// A new correlation id so the idempotency marker does not hide the limit.
	pctx.CorrelationID = "corr-2"
	out = r.Dispatch(context.Background(), pctx, testRender(""))
	assert.Equal(t, router.Outcome{Skipped: 1}, out)
	assert.Len(t, sender.payloads, 1)
}

func TestDispatchInvalidRecipientSkips(t *testing.T) {
	t.Parallel()

	r := newRouter(t, queue.NewMemoryRepository())
	pctx := testPipelineContext(channel.Email)
	pctx.Recipient.Email = "not-an-email"

	out := r.Dispatch(context.Background(), pctx, testRender("Subject"))
	assert.Equal(t, router.Outcome{Skipped: 1}, out)
}

func TestDispatchRenderFailureFailsChannel(t *testing.T) {
	t.Parallel()

	r := newRouter(t, queue.NewMemoryRepository())
	render := func(ctx context.Context, ch channel.Channel) (*templates.Rendered, error) {
		return nil, errors.New("template broken")
	}

	out := r.Dispatch(context.Background(), testPipelineContext(channel.SMS, channel.Email), render)
	assert.Equal(t, router.Outcome{Failed: 2}, out)
}

func TestDispatchWritesDeliveryLog(t *testing.T) {
	t.Parallel()

	logs := logstore.NewMemoryStore()
	r := newRouter(t, queue.NewMemoryRepository(), router.WithLogStore(logs))

	out := r.Dispatch(context.Background(), testPipelineContext(channel.SMS), testRender(""))
	require.Equal(t, router.Outcome{Sent: 1}, out)

	// Provider message id is unknown until the transport reports back, so the
	// fresh record still carries an empty one.
	record, err := logs.FindByProviderMessageID(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, logstore.StatusQueued, record.Status)
	assert.Equal(t, channel.SMS, record.Channel)
	assert.Equal(t, "corr-1", record.Metadata["correlation_id"])
}
