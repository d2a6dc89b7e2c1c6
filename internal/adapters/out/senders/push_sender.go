package senders

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
)

// PushConfig configures the push gateway sender.
type PushConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// PushSender delivers notifications through the push gateway, which fans out
// to the user's registered devices.
type PushSender struct {
	gateway *gateway
}

// NewPushSender creates a push sender for the given gateway.
func NewPushSender(cfg PushConfig) *PushSender {
	return &PushSender{
		gateway: newGateway(gatewayConfig{
			baseURL:    cfg.BaseURL,
			authToken:  cfg.APIKey,
			timeout:    cfg.Timeout,
			maxRetries: cfg.MaxRetries,
		}),
	}
}

type pushWire struct {
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	OrderID   string `json:"order_id"`
	DedupeKey string `json:"dedupe_key"`
}

// Send posts one push notification to the gateway.
func (s *PushSender) Send(ctx context.Context, n notification.Notification) error {
	return s.gateway.post(ctx, "/v1/push", pushWire{
		UserID:    n.UserID.String(),
		Title:     n.Subject,
		Body:      n.Body,
		OrderID:   n.OrderID.String(),
		DedupeKey: n.DedupeKey,
	})
}
