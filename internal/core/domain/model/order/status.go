package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine with a fixed transition graph:
//
//	PendingPayment ──> PaymentConfirmed ──> Processing ──> Shipped ──> OutForDelivery ──> Delivered
//	      │                   │                 │             │                               │
//	      └───────────────────┴────> Cancelled <┘             └──────> RefundRequested <─────┘
//	                                                                         │
//	                                                                         v
//	                                                                     Refunded
//
// Delivered, Cancelled and Refunded are terminal for the forward flow;
// Delivered and Shipped may still branch into the refund path.
type Status int

const (
	// Unknown represents an invalid or undefined status. The zero value is
	// deliberately invalid to catch uninitialized Status values.
	Unknown Status = iota

	// PendingPayment is the initial status of a newly placed order.
	PendingPayment

	// PaymentConfirmed indicates the payment gateway reported a successful
	// settlement for the order.
	PaymentConfirmed

	// Processing indicates the warehouse started picking the order. This is the
	// single required starting state for shipment creation.
	Processing

	// Shipped indicates a carrier accepted the package and a tracking handle
	// exists.
	Shipped

	// OutForDelivery indicates the carrier reported the package on its final
	// delivery leg.
	OutForDelivery

	// Delivered indicates the carrier confirmed delivery. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before shipping. Terminal.
	Cancelled

	// RefundRequested indicates the buyer asked for their money back after the
	// package shipped or was delivered.
	RefundRequested

	// Refunded indicates the refund settled. Terminal.
	Refunded
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid order transition")

// InvalidTransitionError reports a requested edge that is not part of the
// transition graph. The order is left unchanged when this error is returned.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		PendingPayment:   "PendingPayment",
		PaymentConfirmed: "PaymentConfirmed",
		Processing:       "Processing",
		Shipped:          "Shipped",
		OutForDelivery:   "OutForDelivery",
		Delivered:        "Delivered",
		Cancelled:        "Cancelled",
		RefundRequested:  "RefundRequested",
		Refunded:         "Refunded",
	}
}

// transitionGraph enumerates every allowed edge. Absent edges are rejected;
// there is no other path for a status change.
func transitionGraph() map[Status][]Status {
	return map[Status][]Status{
		PendingPayment:   {PaymentConfirmed, Cancelled},
		PaymentConfirmed: {Processing, Cancelled},
		Processing:       {Shipped, Cancelled},
		Shipped:          {OutForDelivery, RefundRequested},
		OutForDelivery:   {Delivered},
		Delivered:        {RefundRequested},
		RefundRequested:  {Refunded},
	}
}

// Validate checks that the Status holds one of the defined lifecycle values.
// Unknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", int(s)))
	}
	return nil
}

// String returns the human-readable name of the status. Safe to call on any
// value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status concludes fulfillment. Delivered is
// terminal even though the refund branch can still leave it.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Refunded
}

// CanTransitionTo reports whether the graph contains the edge s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitionGraph()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the edge s -> target and returns the new status.
// Returns an InvalidTransitionError when the edge is absent from the graph.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, &InvalidTransitionError{From: s, To: target}
	}
	return target, nil
}

// StatusFromString parses a lifecycle status from its string name. Used at the
// HTTP boundary and when restoring persisted orders.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}
