package logstore

import (
	"context"

	"github.com/google/uuid"
)

// Store persists delivery records.
type Store interface {
	// Create inserts a new delivery record.
	Create(ctx context.Context, record *Record) error

	// FindByProviderMessageID returns the record the provider assigned the
	// given message id to, or ErrNotFound.
	FindByProviderMessageID(ctx context.Context, providerMessageID string) (*Record, error)

	// UpdateStatus advances the record's status and merges metadata into the
	// existing metadata map. Existing keys not present in metadata survive.
	UpdateStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus, errMsg string, metadata map[string]any) error
}
