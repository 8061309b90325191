package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
)

func testManifest(priority int) manifest.Manifest {
	return manifest.Manifest{
		Type:         "appointment_reminder",
		Priority:     priority,
		TemplateBase: "appointment-reminder",
		Audiences: map[manifest.Audience]manifest.AudienceManifest{
			"staff": {
				Channels: map[channel.Channel]manifest.ChannelManifest{
					channel.Email: {Subject: "Reminder"},
					channel.SMS:   {},
					channel.InApp: {},
				},
			},
		},
	}
}

func testContext(priority int) *pipeline.Context {
	return &pipeline.Context{
		CorrelationID: "corr-1",
		Manifest:      testManifest(priority),
		Audience:      "staff",
		Recipient: pipeline.RecipientInfo{
			UserID: "user-1",
			Email:  "user@example.com",
			Phone:  "+14155550123",
			Locale: "en",
		},
		Event: map[string]any{"appointmentDate": "2026-08-25"},
	}
}

func TestRunHappyPath(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	require.NoError(t, pipeline.New().Run(context.Background(), pctx))

	assert.ElementsMatch(t, []channel.Channel{channel.Email, channel.SMS, channel.InApp}, pctx.Enabled)
	assert.ElementsMatch(t, pctx.Enabled, pctx.Final, "no selector keeps the enabled set")

	assert.Equal(t, "2026-08-25", pctx.TemplateData["appointmentDate"])
	assert.Equal(t, "user-1", pctx.TemplateData["recipientId"])
	assert.Equal(t, "+14155550123", pctx.TemplateData["recipientPhone"])
	assert.Equal(t, "en", pctx.TemplateData["recipientLocale"])
	assert.NotContains(t, pctx.TemplateData, "centerId", "empty optional fields are omitted")
}

func TestRunMissingPhone(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	pctx.Recipient.Phone = ""

	err := pipeline.New().Run(context.Background(), pctx)
	assert.ErrorIs(t, err, pipeline.ErrMissingPhone)
}

func TestRunRequestedIntersection(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	pctx.Requested = []channel.Channel{channel.SMS, channel.Push}

	require.NoError(t, pipeline.New().Run(context.Background(), pctx))
	assert.Equal(t, []channel.Channel{channel.SMS}, pctx.Enabled,
		"undeclared requested channel is dropped, not fatal")
}

func TestRunEmptyIntersectionFallsBack(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	pctx.Requested = []channel.Channel{channel.Push, channel.WhatsApp}

	require.NoError(t, pipeline.New().Run(context.Background(), pctx))
	assert.ElementsMatch(t, []channel.Channel{channel.Email, channel.SMS, channel.InApp}, pctx.Enabled)
}

func TestRunNoChannels(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	pctx.Manifest.Audiences["staff"] = manifest.AudienceManifest{
		Channels: map[channel.Channel]manifest.ChannelManifest{},
	}

	err := pipeline.New().Run(context.Background(), pctx)
	assert.ErrorIs(t, err, pipeline.ErrNoChannels)
}

func TestRunUnknownAudience(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	pctx.Audience = "client"

	err := pipeline.New().Run(context.Background(), pctx)
	assert.ErrorIs(t, err, manifest.ErrAudienceNotFound)
}

type staticSelector struct {
	result []channel.Channel
}

func (s staticSelector) Select(ctx context.Context, userID string, base []channel.Channel, priority int, requiresAudit bool) []channel.Channel {
	return s.result
}

func TestRunSelectorNeverEmpties(t *testing.T) {
	t.Parallel()

	pctx := testContext(5)
	p := pipeline.New(pipeline.WithSelector(staticSelector{result: nil}))

	require.NoError(t, p.Run(context.Background(), pctx))
	assert.ElementsMatch(t, pctx.Enabled, pctx.Final,
		"an empty selection falls back to the enabled set")
}
