package dispatch

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/manifest"
	"github.com/dmitrymomot/notifykit/pkg/pipeline"
)

// Params carries everything one Trigger call needs besides the type.
type Params struct {
	Audience   manifest.Audience        `json:"audience"`
	Event      map[string]any           `json:"event"`
	Recipients []pipeline.RecipientInfo `json:"recipients"`

	// Channels optionally restricts delivery to a subset of the manifest's
	// channels. Empty means all declared channels.
	Channels []channel.Channel `json:"channels,omitempty"`
}

// RecipientError describes why one recipient failed.
type RecipientError struct {
	Recipient string `json:"recipient"`
	Code      string `json:"code"`
	Err       string `json:"error"`
}

// BulkResult aggregates all per-recipient outcomes of one Trigger call.
// Total reports the raw recipient count including duplicates; Sent, Failed
// and Skipped count deduplicated recipients, so their sum never exceeds
// Total.
type BulkResult struct {
	Total         int              `json:"total"`
	Sent          int              `json:"sent"`
	Failed        int              `json:"failed"`
	Skipped       int              `json:"skipped"`
	Errors        []RecipientError `json:"errors,omitempty"`
	Duration      time.Duration    `json:"duration"`
	CorrelationID string           `json:"correlation_id"`
}
