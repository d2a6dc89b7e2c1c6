package senders

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

// InAppSender serves the in-app channel. The notification log row recorded by
// the dispatcher is itself the user's inbox entry, so delivery needs no
// external call.
type InAppSender struct{}

// NewInAppSender creates the in-app sender.
func NewInAppSender() *InAppSender {
	return &InAppSender{}
}

// Send succeeds immediately; the dispatcher already persisted the inbox row.
func (s *InAppSender) Send(_ context.Context, _ notification.Notification) error {
	return nil
}
