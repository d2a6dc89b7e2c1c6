package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// DispatchNotificationCommandHandler resolves the notify-or-suppress decision
// for one trigger and fans the message out to the user's channels.
//
// Channel failures are recorded and counted but never returned: a broken SMS
// provider must not fail the tracking ingestion or order transition that
// triggered the message. The only errors Handle returns are validation and
// preference-read failures that precede any send.
type DispatchNotificationCommandHandler struct {
	preferences ports.PreferenceRepository
	log         ports.NotificationLogRepository
	senders     ports.SenderRegistry
	dedupe      ports.DedupeStore
	dedupeTTL   time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// NewDispatchNotificationCommandHandler creates the dispatch handler. The
// dedupe TTL bounds how long a trigger's channel claims stay reserved.
func NewDispatchNotificationCommandHandler(
	preferences ports.PreferenceRepository,
	log ports.NotificationLogRepository,
	senders ports.SenderRegistry,
	dedupe ports.DedupeStore,
	dedupeTTL time.Duration,
	now func() time.Time,
	logger *slog.Logger,
) DispatchNotificationCommandHandler {
	return DispatchNotificationCommandHandler{
		preferences: preferences,
		log:         log,
		senders:     senders,
		dedupe:      dedupe,
		dedupeTTL:   dedupeTTL,
		now:         now,
		logger:      logger,
	}
}

// Handle dispatches one trigger. Missing preference records resolve to the
// default preference. Non-urgent messages inside the user's quiet-hours window
// are recorded as SKIPPED and not delivered later.
func (h DispatchNotificationCommandHandler) Handle(
	ctx context.Context,
	command DispatchNotificationCommand,
) error {
	if err := command.Validate(); err != nil {
		return err
	}

	pref, err := h.preferences.Get(ctx, command.UserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		pref = notification.DefaultPreference(command.UserID())
		metrics.PreferenceDefaultsApplied.Inc()
	} else if err != nil {
		return err
	}

	channels := pref.ResolveChannels(command.Type())
	if len(channels) == 0 {
		h.logger.Debug("notification type disabled for user",
			"user_id", command.UserID().String(),
			"type", command.Type().String(),
		)
		return nil
	}

	suppressed := pref.InQuietHours(h.now()) && !command.Priority().IsUrgent()

	// Channels send in parallel; one slow gateway must not delay the others.
	var wg sync.WaitGroup
	for _, channel := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.dispatchToChannel(ctx, command, channel, suppressed)
		}()
	}
	wg.Wait()

	return nil
}

func (h DispatchNotificationCommandHandler) dispatchToChannel(
	ctx context.Context,
	command DispatchNotificationCommand,
	channel notification.Channel,
	suppressed bool,
) {
	key := notification.DedupeKey(command.OrderID(), command.TransitionKind(), channel)

	claimed, err := h.dedupe.Reserve(ctx, key, h.dedupeTTL)
	if err != nil {
		h.logger.Error("dedupe reservation failed",
			"channel", channel.String(), "dedupe_key", key, "error", err)
		return
	}
	if !claimed {
		h.logger.Debug("notification already dispatched",
			"channel", channel.String(), "dedupe_key", key)
		return
	}

	n := notification.Notification{
		ID:        kernel.NewUUID(),
		UserID:    command.UserID(),
		OrderID:   command.OrderID(),
		Type:      command.Type(),
		Priority:  command.Priority(),
		Channel:   channel,
		DedupeKey: key,
		Subject:   command.Subject(),
		Body:      command.Body(),
		Status:    notification.DeliveryPending,
		CreatedAt: h.now(),
	}

	if suppressed {
		n.Status = notification.DeliverySkipped
		if err = h.log.Record(ctx, n); err != nil {
			h.logger.Error("failed to record suppressed notification",
				"channel", channel.String(), "error", err)
		}
		metrics.NotificationsSuppressed.WithLabelValues(channel.String()).Inc()
		return
	}

	if err = h.log.Record(ctx, n); err != nil {
		h.logger.Error("failed to record notification",
			"channel", channel.String(), "error", err)
		return
	}

	sender, ok := h.senders[channel]
	if !ok {
		h.failDelivery(ctx, n, errors.New("no sender registered"))
		return
	}

	if err = sender.Send(ctx, n); err != nil {
		h.failDelivery(ctx, n, err)
		return
	}

	if err = h.log.UpdateDelivery(ctx, n.ID, notification.DeliverySent, 1); err != nil {
		h.logger.Error("failed to mark notification sent",
			"notification_id", n.ID.String(), "error", err)
	}
}

func (h DispatchNotificationCommandHandler) failDelivery(
	ctx context.Context,
	n notification.Notification,
	cause error,
) {
	metrics.NotificationSendFailures.WithLabelValues(n.Channel.String()).Inc()
	h.logger.Error("notification send failed",
		"notification_id", n.ID.String(),
		"channel", n.Channel.String(),
		"error", cause,
	)
	if err := h.log.UpdateDelivery(ctx, n.ID, notification.DeliveryFailed, 1); err != nil {
		h.logger.Error("failed to mark notification failed",
			"notification_id", n.ID.String(), "error", err)
	}
}

// OnTransition makes the dispatcher a subscriber of committed order
// transitions. Runs outside the ledger's transaction; any failure is logged
// and absorbed here.
func (h DispatchNotificationCommandHandler) OnTransition(event order.TransitionOccurred) {
	notifType, priority, body := notification.ForTransition(event.From, event.To)
	transitionKind := event.From.String() + "->" + event.To.String()

	command, err := NewDispatchNotificationCommand(
		event.UserID, event.OrderID, transitionKind,
		notifType, priority, "Order update", body)
	if err != nil {
		h.logger.Error("failed to build notification for transition",
			"order_id", event.OrderID.String(), "error", err)
		return
	}

	if err = h.Handle(context.Background(), command); err != nil {
		h.logger.Error("failed to dispatch transition notification",
			"order_id", event.OrderID.String(), "error", err)
	}
}
