package router

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// Payload is the channel-ready message handed to a transport, either
// synchronously (in-app) or through the queue (everything else).
type Payload struct {
	CorrelationID    string                `json:"correlation_id"`
	Type             string                `json:"type"`
	Channel          channel.Channel       `json:"channel"`
	Recipient        string                `json:"recipient"`
	Subject          string                `json:"subject,omitempty"`
	Body             string                `json:"body,omitempty"`
	Structured       *templates.Structured `json:"structured,omitempty"`
	WhatsAppTemplate string                `json:"whatsapp_template,omitempty"`
	Priority         int                   `json:"priority"`
}

// Sender delivers a payload over a transport. Implementations live outside
// this module (mail, SMS and chat providers, websocket hub for in-app).
type Sender interface {
	Send(ctx context.Context, payload Payload) error
}

// deliveryTaskName names queue tasks per channel so one worker can register
// a distinct handler for each transport.
func deliveryTaskName(ch channel.Channel) string {
	return "deliver." + string(ch)
}

type deliveryHandler struct {
	name string
	fn   func(ctx context.Context, payload Payload) error
}

// NewDeliveryHandler adapts a transport function into a queue handler for the
// given channel's delivery tasks.
func NewDeliveryHandler(ch channel.Channel, fn func(ctx context.Context, payload Payload) error) queue.Handler {
	return &deliveryHandler{name: deliveryTaskName(ch), fn: fn}
}

func (h *deliveryHandler) Name() string { return h.name }

func (h *deliveryHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode delivery payload: %w", err)
	}
	return h.fn(ctx, payload)
}
