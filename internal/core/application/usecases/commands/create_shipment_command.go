package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrCreateShipmentCommandIsNotConstructed is returned when a
// CreateShipmentCommand was not created through NewCreateShipmentCommand.
var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor")

// CreateShipmentCommand commits an order to a specific carrier. A zero
// codAmount means a prepaid shipment.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	carrierID string
	weightKg  float64
	codAmount kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a validated shipment request.
func NewCreateShipmentCommand(
	orderID kernel.UUID,
	carrierID string,
	weightKg float64,
	codAmount kernel.Money,
) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCarrierID(carrierID),
		cmd.setWeightKg(weightKg),
	); err != nil {
		return CreateShipmentCommand{}, err
	}
	cmd.codAmount = codAmount

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// OrderID returns the order to ship.
func (c CreateShipmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CarrierID returns the chosen carrier.
func (c CreateShipmentCommand) CarrierID() string {
	return c.carrierID
}

// WeightKg returns the package weight.
func (c CreateShipmentCommand) WeightKg() float64 {
	return c.weightKg
}

// CODAmount returns the cash-on-delivery amount, zero for prepaid shipments.
func (c CreateShipmentCommand) CODAmount() kernel.Money {
	return c.codAmount
}

func (c *CreateShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateShipmentCommand) setCarrierID(carrierID string) error {
	if carrierID == "" {
		return errs.NewValueIsRequiredError("carrierId")
	}
	c.carrierID = carrierID
	return nil
}

func (c *CreateShipmentCommand) setWeightKg(weightKg float64) error {
	if weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%v is not greater than 0", weightKg))
	}
	c.weightKg = weightKg
	return nil
}
