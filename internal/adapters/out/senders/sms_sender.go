package senders

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
)

// SMSConfig configures the SMS gateway sender.
type SMSConfig struct {
	BaseURL    string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
	MaxRetries int
}

// SMSSender delivers notifications through the SMS gateway, which resolves
// the recipient phone number from the user id.
type SMSSender struct {
	cfg     SMSConfig
	gateway *gateway
}

// NewSMSSender creates an SMS sender for the given gateway.
func NewSMSSender(cfg SMSConfig) *SMSSender {
	return &SMSSender{
		cfg: cfg,
		gateway: newGateway(gatewayConfig{
			baseURL:    cfg.BaseURL,
			authToken:  cfg.AuthToken,
			timeout:    cfg.Timeout,
			maxRetries: cfg.MaxRetries,
		}),
	}
}

type smsWire struct {
	UserID     string `json:"user_id"`
	FromNumber string `json:"from_number"`
	Message    string `json:"message"`
	DedupeKey  string `json:"dedupe_key"`
}

// Send posts one text message to the gateway. SMS has no subject line, so
// only the body travels.
func (s *SMSSender) Send(ctx context.Context, n notification.Notification) error {
	return s.gateway.post(ctx, "/v1/messages", smsWire{
		UserID:     n.UserID.String(),
		FromNumber: s.cfg.FromNumber,
		Message:    n.Body,
		DedupeKey:  n.DedupeKey,
	})
}
