package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

// RetryFailedNotificationsCommandHandler re-sends FAILED notification rows.
// Each row keeps its original dedupe key, so a retry can never become a second
// delivery of an already-sent message.
type RetryFailedNotificationsCommandHandler struct {
	log     ports.NotificationLogRepository
	senders ports.SenderRegistry
	logger  *slog.Logger
}

// NewRetryFailedNotificationsCommandHandler creates the retry handler.
func NewRetryFailedNotificationsCommandHandler(
	log ports.NotificationLogRepository,
	senders ports.SenderRegistry,
	logger *slog.Logger,
) RetryFailedNotificationsCommandHandler {
	return RetryFailedNotificationsCommandHandler{
		log:     log,
		senders: senders,
		logger:  logger,
	}
}

// Handle retries every eligible row once. Individual failures bump the row's
// attempt count and stay FAILED for the next run; only the initial read can
// fail the whole command.
func (h RetryFailedNotificationsCommandHandler) Handle(
	ctx context.Context,
	command RetryFailedNotificationsCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	rows, err := h.log.GetFailed(ctx, command.MaxAttempts())
	if err != nil {
		return err
	}

	for _, n := range rows {
		h.retry(ctx, n)
	}

	return nil
}

func (h RetryFailedNotificationsCommandHandler) retry(
	ctx context.Context,
	n notification.Notification,
) {
	attempts := n.Attempts + 1

	sender, ok := h.senders[n.Channel]
	if !ok {
		h.logger.Error("no sender registered for channel", "channel", n.Channel.String())
		return
	}

	if err := sender.Send(ctx, n); err != nil {
		metrics.NotificationSendFailures.WithLabelValues(n.Channel.String()).Inc()
		h.logger.Warn("notification retry failed",
			"notification_id", n.ID.String(),
			"channel", n.Channel.String(),
			"attempts", attempts,
			"error", err,
		)
		if err = h.log.UpdateDelivery(ctx, n.ID, notification.DeliveryFailed, attempts); err != nil {
			h.logger.Error("failed to update retried notification",
				"notification_id", n.ID.String(), "error", err)
		}
		return
	}

	if err := h.log.UpdateDelivery(ctx, n.ID, notification.DeliverySent, attempts); err != nil {
		h.logger.Error("failed to mark retried notification sent",
			"notification_id", n.ID.String(), "error", err)
	}
}
