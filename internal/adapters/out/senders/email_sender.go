package senders

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/notification"
)

// EmailConfig configures the email gateway sender.
type EmailConfig struct {
	BaseURL    string
	APIKey     string
	FromEmail  string
	FromName   string
	Timeout    time.Duration
	MaxRetries int
}

// EmailSender delivers notifications through the mail gateway, which resolves
// the recipient address from the user id.
type EmailSender struct {
	cfg     EmailConfig
	gateway *gateway
}

// NewEmailSender creates an email sender for the given gateway.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{
		cfg: cfg,
		gateway: newGateway(gatewayConfig{
			baseURL:    cfg.BaseURL,
			authToken:  cfg.APIKey,
			timeout:    cfg.Timeout,
			maxRetries: cfg.MaxRetries,
		}),
	}
}

type emailWire struct {
	UserID    string `json:"user_id"`
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	DedupeKey string `json:"dedupe_key"`
}

// Send posts one email to the gateway.
func (s *EmailSender) Send(ctx context.Context, n notification.Notification) error {
	return s.gateway.post(ctx, "/v1/emails", emailWire{
		UserID:    n.UserID.String(),
		FromEmail: s.cfg.FromEmail,
		FromName:  s.cfg.FromName,
		Subject:   n.Subject,
		Body:      n.Body,
		DedupeKey: n.DedupeKey,
	})
}
