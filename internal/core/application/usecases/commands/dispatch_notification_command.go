package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDispatchNotificationCommandIsNotConstructed is returned when a
// DispatchNotificationCommand was not created through the constructor.
var ErrDispatchNotificationCommandIsNotConstructed = errors.New(
	"DispatchNotificationCommand must be created via NewDispatchNotificationCommand constructor")

// DispatchNotificationCommand asks the dispatcher to notify one user about one
// triggering event. The transitionKind identifies that trigger ("pending_payment->
// payment_confirmed", "delivery_failed") and feeds the dedupe key, so re-running
// the same trigger cannot message the user twice on the same channel.
type DispatchNotificationCommand struct { //nolint:recvcheck //using for validation
	userID         kernel.UUID
	orderID        kernel.UUID
	transitionKind string
	notifType      notification.Type
	priority       notification.Priority
	subject        string
	body           string

	guard guard.ConstructorGuard
}

// NewDispatchNotificationCommand creates a validated dispatch request.
func NewDispatchNotificationCommand(
	userID kernel.UUID,
	orderID kernel.UUID,
	transitionKind string,
	notifType notification.Type,
	priority notification.Priority,
	subject string,
	body string,
) (DispatchNotificationCommand, error) {
	cmd := DispatchNotificationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setOrderID(orderID),
		cmd.setTransitionKind(transitionKind),
		cmd.setType(notifType),
		cmd.setBody(body),
	); err != nil {
		return DispatchNotificationCommand{}, err
	}
	cmd.priority = priority
	cmd.subject = subject

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchNotificationCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationCommandIsNotConstructed)
}

// UserID returns the recipient.
func (c DispatchNotificationCommand) UserID() kernel.UUID {
	return c.userID
}

// OrderID returns the order the notification is about.
func (c DispatchNotificationCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TransitionKind returns the trigger identifier used for deduplication.
func (c DispatchNotificationCommand) TransitionKind() string {
	return c.transitionKind
}

// Type returns the notification type preferences are resolved against.
func (c DispatchNotificationCommand) Type() notification.Type {
	return c.notifType
}

// Priority returns the notification priority.
func (c DispatchNotificationCommand) Priority() notification.Priority {
	return c.priority
}

// Subject returns the message subject.
func (c DispatchNotificationCommand) Subject() string {
	return c.subject
}

// Body returns the message body.
func (c DispatchNotificationCommand) Body() string {
	return c.body
}

func (c *DispatchNotificationCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *DispatchNotificationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *DispatchNotificationCommand) setTransitionKind(transitionKind string) error {
	if transitionKind == "" {
		return errs.NewValueIsRequiredError("transitionKind")
	}
	c.transitionKind = transitionKind
	return nil
}

func (c *DispatchNotificationCommand) setType(notifType notification.Type) error {
	if notifType == notification.TypeUnknown {
		return errs.NewValueIsInvalidErrorWithCause("type",
			fmt.Errorf("%d is not a valid notification type", int(notifType)))
	}
	c.notifType = notifType
	return nil
}

func (c *DispatchNotificationCommand) setBody(body string) error {
	if body == "" {
		return errs.NewValueIsRequiredError("body")
	}
	c.body = body
	return nil
}
