package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifykit/pkg/channel"
)

// PGStore persists delivery records in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE notification_log (
//	    id                  UUID PRIMARY KEY,
//	    provider_message_id TEXT NOT NULL DEFAULT '',
//	    type                TEXT NOT NULL,
//	    channel             TEXT NOT NULL,
//	    recipient           TEXT NOT NULL,
//	    status              TEXT NOT NULL,
//	    error               TEXT NOT NULL DEFAULT '',
//	    metadata            JSONB NOT NULL DEFAULT '{}',
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    updated_at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX notification_log_provider_message_id_idx
//	    ON notification_log (provider_message_id) WHERE provider_message_id <> '';
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store over the given pool.
func NewPGStore(pool *pgxpool.Pool) (*PGStore, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Create(ctx context.Context, record *Record) error {
	if !record.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, record.Status)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	meta, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	const q = `
		INSERT INTO notification_log
			(id, provider_message_id, type, channel, recipient, status, error, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = s.pool.Exec(ctx, q,
		record.ID, record.ProviderMessageID, record.Type, string(record.Channel),
		record.Recipient, string(record.Status), record.Error, meta,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert delivery record: %w", err)
	}
	return nil
}

func (s *PGStore) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*Record, error) {
	const q = `
		SELECT id, provider_message_id, type, channel, recipient, status, error, metadata, created_at, updated_at
		FROM notification_log
		WHERE provider_message_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		record Record
		ch     string
		status string
		meta   []byte
	)
	err := s.pool.QueryRow(ctx, q, providerMessageID).Scan(
		&record.ID, &record.ProviderMessageID, &record.Type, &ch,
		&record.Recipient, &status, &record.Error, &meta,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: provider message id %q", ErrNotFound, providerMessageID)
		}
		return nil, fmt.Errorf("query delivery record: %w", err)
	}

	record.Channel = channel.Channel(ch)
	record.Status = DeliveryStatus(status)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &record.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &record, nil
}

// UpdateStatus merges metadata server-side so concurrent callbacks for the
// same record do not clobber each other's keys.
func (s *PGStore) UpdateStatus(ctx context.Context, id uuid.UUID, status DeliveryStatus, errMsg string, metadata map[string]any) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	const q = `
		UPDATE notification_log
		SET status = $2,
		    error = $3,
		    metadata = COALESCE(metadata, '{}'::jsonb) || $4::jsonb,
		    updated_at = $5
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id, string(status), errMsg, meta, time.Now())
	if err != nil {
		return fmt.Errorf("update delivery record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
