package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// ErrInvalidPrecondition is the unwrap target for InvalidPreconditionError.
var ErrInvalidPrecondition = errors.New("order is not ready for shipment")

// InvalidPreconditionError indicates a shipment was requested for an order
// that is not in the required lifecycle status.
type InvalidPreconditionError struct {
	Required order.Status
	Actual   order.Status
}

func (e *InvalidPreconditionError) Error() string {
	return fmt.Sprintf("order must be %s to create a shipment, but is %s", e.Required, e.Actual)
}

func (e *InvalidPreconditionError) Unwrap() error {
	return ErrInvalidPrecondition
}

// OrderTransitioner moves an order along its lifecycle. Satisfied by
// TransitionOrderCommandHandler; shipment creation and tracking ingestion
// route their status changes through it instead of writing status directly.
type OrderTransitioner interface {
	Handle(ctx context.Context, command TransitionOrderCommand) (*order.Order, error)
}

// CreateShipmentCommandHandler commits a Processing order to one carrier.
//
// The carrier call happens outside any transaction: it can take seconds and
// its result is externally visible either way. Repeating the command for an
// order that already has an assignment returns the stored assignment without
// calling the carrier again.
type CreateShipmentCommandHandler struct {
	uowFactory    UoWFactory
	registry      *carrier.Registry
	carrierClient ports.CarrierClient
	transitioner  OrderTransitioner
	pickup        ports.ShipmentAddress
	logger        *slog.Logger
}

// NewCreateShipmentCommandHandler creates a handler for shipment creation.
// The pickup address is the warehouse the carriers collect from.
func NewCreateShipmentCommandHandler(
	uowFactory UoWFactory,
	registry *carrier.Registry,
	carrierClient ports.CarrierClient,
	transitioner OrderTransitioner,
	pickup ports.ShipmentAddress,
	logger *slog.Logger,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory:    uowFactory,
		registry:      registry,
		carrierClient: carrierClient,
		transitioner:  transitioner,
		pickup:        pickup,
		logger:        logger,
	}
}

// Handle registers the package with the carrier, persists the assignment and
// moves the order to Shipped.
//
// If the order was cancelled between the carrier accepting the package and the
// transition attempt, the rejected transition is swallowed: the assignment is
// kept as the record of a shipment that support has to recall, and the order
// stays Cancelled.
func (h CreateShipmentCommandHandler) Handle(
	ctx context.Context,
	command CreateShipmentCommand,
) (*shipment.Assignment, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	chosen, err := h.registry.Get(command.CarrierID())
	if err != nil {
		return nil, err
	}
	if err = checkCapabilities(chosen, command); err != nil {
		return nil, err
	}

	o, existing, err := h.loadOrder(ctx, command)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if o.Status() != order.Processing {
		return nil, &InvalidPreconditionError{Required: order.Processing, Actual: o.Status()}
	}

	result, err := h.carrierClient.CreateShipment(ctx, ports.CreateShipmentRequest{
		CarrierID: chosen.ID(),
		OrderID:   o.ID(),
		Pickup:    h.pickup,
		Delivery:  shipmentAddress(o.ShippingAddress()),
		WeightKg:  command.WeightKg(),
		CODAmount: command.CODAmount(),
	})
	if err != nil {
		return nil, err
	}

	assignment, err := shipment.NewAssignment(o.ID(), chosen.ID(), result.TrackingID)
	if err != nil {
		return nil, err
	}

	if err = h.storeAssignment(ctx, assignment); err != nil {
		return nil, err
	}

	transitionCmd, err := NewTransitionOrderCommand(
		o.ID(), order.Shipped, "shipment-coordinator", result.TrackingID)
	if err != nil {
		return nil, err
	}

	if _, err = h.transitioner.Handle(ctx, transitionCmd); err != nil {
		if errors.Is(err, order.ErrInvalidTransition) {
			metrics.InvalidTransitionsSwallowed.WithLabelValues(chosen.ID()).Inc()
			h.logger.Warn("shipment created for an order that left Processing",
				"order_id", o.ID().String(),
				"tracking_id", result.TrackingID,
				"carrier", chosen.ID(),
			)
			return assignment, nil
		}
		return nil, err
	}

	return assignment, nil
}

// loadOrder reads the order and any existing assignment in one short read-only
// transaction. Returns the existing assignment when the order is already
// shipped under this command's idempotency rule.
func (h CreateShipmentCommandHandler) loadOrder(
	ctx context.Context,
	command CreateShipmentCommand,
) (*order.Order, *shipment.Assignment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, nil, err
	}

	existing, err := uow.ShipmentRepository().GetByOrderID(ctx, command.OrderID())
	if err == nil {
		return o, existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, err
	}

	return o, nil, nil
}

func (h CreateShipmentCommandHandler) storeAssignment(
	ctx context.Context,
	assignment *shipment.Assignment,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ShipmentRepository().Add(ctx, assignment); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func checkCapabilities(chosen carrier.Carrier, command CreateShipmentCommand) error {
	if command.WeightKg() > chosen.MaxWeightKg() {
		return errs.NewValueIsOutOfRangeError("weightKg",
			command.WeightKg(), 0, chosen.MaxWeightKg())
	}
	if !command.CODAmount().IsZero() && !chosen.SupportsCOD() {
		return errs.NewValueIsInvalidError("codAmount: carrier " + chosen.ID() + " does not support cash on delivery")
	}
	return nil
}

func shipmentAddress(a order.Address) ports.ShipmentAddress {
	return ports.ShipmentAddress{
		Line1:      a.Line1(),
		City:       a.City(),
		PostalCode: a.PostalCode(),
		Region:     a.Region(),
		Country:    a.Country(),
	}
}
