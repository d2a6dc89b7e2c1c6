package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keymutex"
	"fulfillment/internal/pkg/metrics"
)

// NotificationDispatcher fans one trigger out to a user's channels. Satisfied
// by DispatchNotificationCommandHandler.
type NotificationDispatcher interface {
	Handle(ctx context.Context, command DispatchNotificationCommand) error
}

// IngestTrackingEventCommandHandler applies one raw carrier event to its
// shipping assignment: vocabulary mapping, deduplication, out-of-order
// handling, and the follow-on order transition or user notification.
//
// Anomalies that are normal carrier behavior (duplicates, late arrivals,
// unmapped statuses, transitions the order's state no longer allows) are
// counted and absorbed; Handle only fails on validation, unknown tracking ids
// and storage errors.
type IngestTrackingEventCommandHandler struct {
	uowFactory    UoWFactory
	trackingLocks *keymutex.KeyMutex
	vocabulary    *shipment.Vocabulary
	transitioner  OrderTransitioner
	dispatcher    NotificationDispatcher
	now           func() time.Time
	logger        *slog.Logger
}

// NewIngestTrackingEventCommandHandler creates the ingestion handler.
func NewIngestTrackingEventCommandHandler(
	uowFactory UoWFactory,
	trackingLocks *keymutex.KeyMutex,
	vocabulary *shipment.Vocabulary,
	transitioner OrderTransitioner,
	dispatcher NotificationDispatcher,
	now func() time.Time,
	logger *slog.Logger,
) IngestTrackingEventCommandHandler {
	return IngestTrackingEventCommandHandler{
		uowFactory:    uowFactory,
		trackingLocks: trackingLocks,
		vocabulary:    vocabulary,
		transitioner:  transitioner,
		dispatcher:    dispatcher,
		now:           now,
		logger:        logger,
	}
}

// Handle ingests one event and reports whether it was applied, deduplicated,
// and whether it advanced the canonical status.
func (h IngestTrackingEventCommandHandler) Handle(
	ctx context.Context,
	command IngestTrackingEventCommand,
) (shipment.ApplyOutcome, error) {
	if err := command.Validate(); err != nil {
		return shipment.ApplyOutcome{}, err
	}

	lockKey := "tracking:" + command.TrackingID()
	h.trackingLocks.Lock(lockKey)
	defer h.trackingLocks.Unlock(lockKey)

	canonical, mapped := h.vocabulary.Map(command.CarrierID(), command.RawStatus())
	if !mapped {
		metrics.TrackingUnmappedRawStatus.WithLabelValues(command.CarrierID()).Inc()
		h.logger.Warn("unmapped raw carrier status",
			"carrier", command.CarrierID(),
			"raw_status", command.RawStatus(),
			"tracking_id", command.TrackingID(),
		)
	}

	event, err := shipment.NewStatusEvent(
		command.CarrierID(),
		command.ExternalEventID(),
		command.RawStatus(),
		canonical,
		command.OccurredAt(),
		h.now(),
		command.Location(),
		command.Remarks(),
	)
	if err != nil {
		return shipment.ApplyOutcome{}, err
	}

	assignment, userID, outcome, err := h.applyAndStore(ctx, command, event)
	if err != nil {
		return shipment.ApplyOutcome{}, err
	}

	if outcome.Result == shipment.EventDeduplicated {
		metrics.TrackingEventsDeduplicated.WithLabelValues(command.CarrierID()).Inc()
		return outcome, nil
	}
	if !outcome.Advanced {
		metrics.TrackingEventsOutOfOrder.WithLabelValues(command.CarrierID()).Inc()
		return outcome, nil
	}

	if err = h.reactToAdvance(ctx, command, assignment, userID, canonical); err != nil {
		return shipment.ApplyOutcome{}, err
	}

	return outcome, nil
}

// applyAndStore runs the domain rules and persists the result in one
// transaction. Deduplicated events write nothing. The order's user id is read
// under the same transaction so the follow-on notification does not need a
// second lookup.
func (h IngestTrackingEventCommandHandler) applyAndStore(
	ctx context.Context,
	command IngestTrackingEventCommand,
	event shipment.StatusEvent,
) (*shipment.Assignment, kernel.UUID, shipment.ApplyOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignment, err := uow.ShipmentRepository().GetByTrackingID(ctx, command.TrackingID())
	if err != nil {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{}, err
	}

	if assignment.CarrierID() != command.CarrierID() {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{},
			errs.NewValueIsInvalidError("carrierId: event carrier does not match assignment")
	}

	o, err := uow.OrderRepository().Get(ctx, assignment.OrderID())
	if err != nil {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{}, err
	}

	outcome := assignment.Apply(event)
	if outcome.Result == shipment.EventDeduplicated {
		return assignment, o.UserID(), outcome, nil
	}

	if err = uow.ShipmentRepository().Update(ctx, assignment); err != nil {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, kernel.UUID{}, shipment.ApplyOutcome{}, err
	}

	return assignment, o.UserID(), outcome, nil
}

// reactToAdvance drives the order lifecycle or notifies the user, depending on
// what the canonical status means. Transitions the order's state machine
// rejects are absorbed: the carrier is reporting the physical world and the
// event log already holds the truth.
func (h IngestTrackingEventCommandHandler) reactToAdvance(
	ctx context.Context,
	command IngestTrackingEventCommand,
	assignment *shipment.Assignment,
	userID kernel.UUID,
	canonical shipment.CanonicalStatus,
) error {
	evidence := command.ExternalEventID()
	if evidence == "" {
		evidence = command.TrackingID()
	}

	if orderStatus, drives := canonical.OrderStatus(); drives {
		transitionCmd, err := NewTransitionOrderCommand(
			assignment.OrderID(), orderStatus, "tracking-ingestor", evidence)
		if err != nil {
			return err
		}

		if _, err = h.transitioner.Handle(ctx, transitionCmd); err != nil {
			if errors.Is(err, order.ErrInvalidTransition) {
				metrics.InvalidTransitionsSwallowed.WithLabelValues(command.CarrierID()).Inc()
				h.logger.Warn("carrier event rejected by order state machine",
					"order_id", assignment.OrderID().String(),
					"tracking_id", command.TrackingID(),
					"canonical_status", canonical.String(),
				)
				return nil
			}
			return err
		}
		return nil
	}

	notifType, priority, body, notify := notification.ForTrackingStatus(canonical)
	if !notify {
		return nil
	}

	dispatchCmd, err := NewDispatchNotificationCommand(
		userID, assignment.OrderID(), canonical.String(),
		notifType, priority, "Delivery update", body)
	if err != nil {
		return err
	}

	if err = h.dispatcher.Handle(ctx, dispatchCmd); err != nil {
		h.logger.Error("failed to dispatch tracking notification",
			"order_id", assignment.OrderID().String(),
			"tracking_id", command.TrackingID(),
			"error", err,
		)
	}
	return nil
}
