package webhook

import (
	"encoding/json"
	"time"
)

// Event is the provider's batched webhook payload. The shape follows the
// WhatsApp Business / Meta Graph convention of entries wrapping changes
// wrapping status lists.
type Event struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	Statuses []Status `json:"statuses"`
}

// Status is one delivery receipt for one outbound message.
type Status struct {
	MessageID   string          `json:"id"`
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	RecipientID string          `json:"recipient_id"`
	Errors      []ProviderError `json:"errors,omitempty"`
}

type ProviderError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// IngestedEvent is the queue payload produced by the HTTP handler. The raw
// body is preserved so processing failures can be replayed exactly as
// received.
type IngestedEvent struct {
	ReceivedAt time.Time       `json:"received_at"`
	Body       json.RawMessage `json:"body"`
}
