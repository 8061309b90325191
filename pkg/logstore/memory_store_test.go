package logstore_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/logstore"
)

func TestMemoryStoreLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := logstore.NewMemoryStore()

	record := &logstore.Record{
		ProviderMessageID: "wamid.abc123",
		Type:              "appointment_reminder",
		Channel:           channel.WhatsApp,
		Recipient:         "+14155550123",
		Status:            logstore.StatusSent,
	}
	require.NoError(t, store.Create(ctx, record))
	require.NotEqual(t, uuid.Nil, record.ID)

	found, err := store.FindByProviderMessageID(ctx, "wamid.abc123")
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, logstore.StatusSent, found.Status)

	_, err = store.FindByProviderMessageID(ctx, "wamid.unknown")
	assert.ErrorIs(t, err, logstore.ErrNotFound)
}

func TestMemoryStoreUpdateStatusMergesMetadata(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := logstore.NewMemoryStore()

	record := &logstore.Record{
		ProviderMessageID: "wamid.abc123",
		Type:              "appointment_reminder",
		Channel:           channel.WhatsApp,
		Recipient:         "+14155550123",
		Status:            logstore.StatusSent,
		Metadata:          map[string]any{"correlation_id": "corr-1"},
	}
	require.NoError(t, store.Create(ctx, record))

	err := store.UpdateStatus(ctx, record.ID, logstore.StatusDelivered, "",
		map[string]any{"provider_status": "read", "read_at": "2026-08-24T10:00:00Z"})
	require.NoError(t, err)

	found, err := store.FindByProviderMessageID(ctx, "wamid.abc123")
	require.NoError(t, err)
	assert.Equal(t, logstore.StatusDelivered, found.Status)
	assert.Equal(t, "corr-1", found.Metadata["correlation_id"], "existing keys survive the merge")
	assert.Equal(t, "read", found.Metadata["provider_status"])
}

func TestMemoryStoreUpdateStatusErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := logstore.NewMemoryStore()

	err := store.UpdateStatus(ctx, uuid.New(), logstore.StatusFailed, "bounced", nil)
	assert.ErrorIs(t, err, logstore.ErrNotFound)

	record := &logstore.Record{Type: "t", Channel: channel.Email, Recipient: "a@b.com", Status: logstore.StatusQueued}
	require.NoError(t, store.Create(ctx, record))

	err = store.UpdateStatus(ctx, record.ID, logstore.DeliveryStatus("bogus"), "", nil)
	assert.ErrorIs(t, err, logstore.ErrInvalidStatus)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := logstore.NewMemoryStore()

	record := &logstore.Record{
		ProviderMessageID: "msg-1",
		Type:              "t",
		Channel:           channel.Email,
		Recipient:         "a@b.com",
		Status:            logstore.StatusQueued,
		Metadata:          map[string]any{"k": "v"},
	}
	require.NoError(t, store.Create(ctx, record))

	found, err := store.FindByProviderMessageID(ctx, "msg-1")
	require.NoError(t, err)
	found.Metadata["k"] = "mutated"
	found.Status = logstore.StatusFailed

	again, err := store.FindByProviderMessageID(ctx, "msg-1")
	require.NoError(t, err)
	assert.Equal(t, "v", again.Metadata["k"])
	assert.Equal(t, logstore.StatusQueued, again.Status)
}
