package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/keymutex"
)

// TransitionOrderCommandHandler is the single write path for order status.
// Every status change in the system, whatever triggered it, goes through
// Handle so the transition rules are enforced in exactly one place.
//
// Concurrency is handled twice: a per-order mutex serializes handlers in this
// process, and the repository's version check catches writers in other
// processes. A transition event is published only after the commit succeeds.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	orderLocks *keymutex.KeyMutex
	publisher  ports.TransitionPublisher
	now        func() time.Time
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	orderLocks *keymutex.KeyMutex,
	publisher ports.TransitionPublisher,
	now func() time.Time,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		orderLocks: orderLocks,
		publisher:  publisher,
		now:        now,
		logger:     logger,
	}
}

// Handle applies one transition and returns the order in its resulting state.
//
// Requesting the status the order already has is an idempotent no-op: the
// stored order is returned unchanged, no version bump, no event. An edge the
// transition graph does not allow returns order.ErrInvalidTransition and
// leaves the order untouched.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	command TransitionOrderCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	lockKey := command.OrderID().String()
	h.orderLocks.Lock(lockKey)
	defer h.orderLocks.Unlock(lockKey)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	if o.Status() == command.Target() {
		return o, nil
	}

	from := o.Status()
	occurredAt := h.now()

	if err = o.TransitionTo(command.Target(), occurredAt); err != nil {
		return nil, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.Info("order transitioned",
		"order_id", o.ID().String(),
		"from", from.String(),
		"to", o.Status().String(),
		"actor", command.Actor(),
		"evidence", command.Evidence(),
	)

	h.publisher.PublishTransition(order.TransitionOccurred{
		OrderID: o.ID(),
		UserID:  o.UserID(),
		From:    from,
		To:      o.Status(),
		At:      occurredAt,
	})

	return o, nil
}
