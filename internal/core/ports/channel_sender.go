package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

// ChannelSender delivers one notification over one channel. Implementations
// own their transport-level retries; a returned error means the send failed
// after the sender's own budget and may be re-attempted later by the retry job
// under the same dedupe key.
type ChannelSender interface {
	Send(ctx context.Context, n notification.Notification) error
}

// SenderRegistry maps channels to their senders. Built once in the
// composition root.
type SenderRegistry map[notification.Channel]ChannelSender
