package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/notifykit/pkg/idempotency"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/logstore"
)

// Processor applies status batches to the delivery log. Statuses within one
// event are processed strictly sequentially: the same message id can appear
// twice in a batch and the updates must not race.
type Processor struct {
	logs      logstore.Store
	idem      idempotency.Store
	markerTTL time.Duration
	log       *slog.Logger

	orphans atomic.Int64
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithMarkerTTL overrides how long processed statuses stay deduplicated.
func WithMarkerTTL(ttl time.Duration) ProcessorOption {
	return func(p *Processor) {
		if ttl > 0 {
			p.markerTTL = ttl
		}
	}
}

// WithProcessorLogger sets the logger for reconciliation diagnostics.
func WithProcessorLogger(log *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProcessor creates a processor over the delivery log and idempotency
// store.
func NewProcessor(logs logstore.Store, idem idempotency.Store, opts ...ProcessorOption) (*Processor, error) {
	if logs == nil || idem == nil {
		return nil, ErrNilStore
	}
	p := &Processor{
		logs:      logs,
		idem:      idem,
		markerTTL: 24 * time.Hour,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// HandleIngested decodes a queued ingest payload and processes it. Registered
// as the queue handler for webhook events.
func (p *Processor) HandleIngested(ctx context.Context, event IngestedEvent) error {
	var decoded Event
	if err := json.Unmarshal(event.Body, &decoded); err != nil {
		return fmt.Errorf("decode webhook event: %w", err)
	}
	return p.HandleEvent(ctx, decoded)
}

// HandleEvent walks every status in the event. Errors applying one status are
// logged and counted; they never abort the remaining statuses.
func (p *Processor) HandleEvent(ctx context.Context, event Event) error {
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, status := range change.Value.Statuses {
				p.applyStatus(ctx, status)
			}
		}
	}
	return nil
}

// OrphanCount returns how many receipts arrived for unknown message ids.
func (p *Processor) OrphanCount() int64 {
	return p.orphans.Load()
}

func (p *Processor) applyStatus(ctx context.Context, status Status) {
	log := p.log.With(
		logger.MessageID(status.MessageID),
		slog.String("provider_status", status.Status),
	)

	marker := "notify:webhook:" + status.MessageID + ":" + status.Status
	fresh, err := p.idem.MarkSent(ctx, marker, p.markerTTL)
	if err != nil {
		// Dedupe check fails open: processing twice beats dropping a receipt.
		log.WarnContext(ctx, "webhook dedupe check failed", logger.Error(err))
	} else if !fresh {
		log.DebugContext(ctx, "duplicate webhook status ignored")
		return
	}

	record, err := p.logs.FindByProviderMessageID(ctx, status.MessageID)
	if err != nil {
		if errors.Is(err, logstore.ErrNotFound) {
			p.orphans.Add(1)
			log.WarnContext(ctx, "orphaned webhook status",
				slog.Int64("orphan_count", p.orphans.Load()))
			return
		}
		log.ErrorContext(ctx, "look up delivery record", logger.Error(err))
		return
	}

	internal, errMsg, metadata, ok := mapProviderStatus(status)
	if !ok {
		log.WarnContext(ctx, "unknown provider status")
		return
	}

	if err := p.logs.UpdateStatus(ctx, record.ID, internal, errMsg, metadata); err != nil {
		log.ErrorContext(ctx, "update delivery record", logger.Error(err))
	}
}

// mapProviderStatus translates a provider status to the internal enum. "read"
// collapses into delivered for the primary field; the raw status and its
// timestamp are kept in metadata.
func mapProviderStatus(status Status) (logstore.DeliveryStatus, string, map[string]any, bool) {
	metadata := map[string]any{
		"provider_status": status.Status,
	}
	if ts := providerTimestamp(status.Timestamp); !ts.IsZero() {
		metadata["provider_timestamp"] = ts.Format(time.RFC3339)
	}

	switch status.Status {
	case "sent":
		return logstore.StatusSent, "", metadata, true
	case "delivered":
		return logstore.StatusDelivered, "", metadata, true
	case "read":
		if ts, ok := metadata["provider_timestamp"]; ok {
			metadata["read_at"] = ts
		}
		return logstore.StatusDelivered, "", metadata, true
	case "failed":
		errMsg := "provider reported failure"
		if len(status.Errors) > 0 {
			e := status.Errors[0]
			errMsg = fmt.Sprintf("%d: %s", e.Code, e.Title)
			metadata["provider_error_code"] = e.Code
			if e.Message != "" {
				metadata["provider_error_message"] = e.Message
			}
		}
		return logstore.StatusFailed, errMsg, metadata, true
	default:
		return "", "", nil, false
	}
}

func providerTimestamp(raw string) time.Time {
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
