package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrRetryFailedNotificationsCommandIsNotConstructed is returned when a
// RetryFailedNotificationsCommand was not created through the constructor.
var ErrRetryFailedNotificationsCommandIsNotConstructed = errors.New(
	"RetryFailedNotificationsCommand must be created via NewRetryFailedNotificationsCommand constructor")

// RetryFailedNotificationsCommand re-attempts FAILED notification rows that
// have not yet exhausted their attempt budget.
type RetryFailedNotificationsCommand struct { //nolint:recvcheck //using for validation
	maxAttempts int

	guard guard.ConstructorGuard
}

// NewRetryFailedNotificationsCommand creates a validated retry request.
func NewRetryFailedNotificationsCommand(maxAttempts int) (RetryFailedNotificationsCommand, error) {
	if maxAttempts <= 0 {
		return RetryFailedNotificationsCommand{}, errs.NewValueIsInvalidErrorWithCause("maxAttempts",
			fmt.Errorf("%d is not greater than 0", maxAttempts))
	}

	return RetryFailedNotificationsCommand{
		maxAttempts: maxAttempts,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryFailedNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRetryFailedNotificationsCommandIsNotConstructed)
}

// MaxAttempts returns the attempt budget per notification row.
func (c RetryFailedNotificationsCommand) MaxAttempts() int {
	return c.maxAttempts
}
