package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrTransitionOrderCommandIsNotConstructed = errors.New(
		"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor")
	ErrActorIsRequired = errors.New("actor is required")
)

// TransitionOrderCommand requests one move of an order along its lifecycle
// graph. The actor names who or what triggered the move (gateway signal,
// coordinator, ingestor, support staff); evidence carries the supporting
// reference (payment ref, tracking event id, ticket number).
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	target   order.Status
	actor    string
	evidence string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a validated transition request. Evidence
// may be empty; the target status and actor may not.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actor string,
	evidence string,
) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return TransitionOrderCommand{}, err
	}
	cmd.evidence = evidence

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

// Actor returns who triggered the transition.
func (c TransitionOrderCommand) Actor() string {
	return c.actor
}

// Evidence returns the supporting reference, if any.
func (c TransitionOrderCommand) Evidence() string {
	return c.evidence
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

func (c *TransitionOrderCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}
	c.actor = actor
	return nil
}
