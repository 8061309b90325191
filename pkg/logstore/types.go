package logstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/notifykit/pkg/channel"
)

// DeliveryStatus tracks how far a notification got.
type DeliveryStatus string

const (
	// StatusQueued means the send task was created but not yet handed to a provider.
	StatusQueued DeliveryStatus = "queued"
	// StatusSent means the provider accepted the message.
	StatusSent DeliveryStatus = "sent"
	// StatusDelivered means the provider confirmed delivery to the recipient.
	StatusDelivered DeliveryStatus = "delivered"
	// StatusFailed means the provider reported a permanent failure.
	StatusFailed DeliveryStatus = "failed"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusSent, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// Record is one delivery log entry.
type Record struct {
	ID                uuid.UUID       `json:"id"`
	ProviderMessageID string          `json:"provider_message_id"`
	Type              string          `json:"type"`
	Channel           channel.Channel `json:"channel"`
	Recipient         string          `json:"recipient"`
	Status            DeliveryStatus  `json:"status"`
	Error             string          `json:"error,omitempty"`
	Metadata          map[string]any  `json:"metadata,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
