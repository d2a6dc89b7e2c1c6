package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for the fulfillment lifecycle. It owns the
// canonical status and enforces these invariants:
//
//   - Status only moves along the edges of the transition graph; a rejected
//     transition leaves the order untouched.
//   - version increases by one on every applied transition and backs the
//     optimistic-concurrency check in the repository.
//   - Line items and address snapshots are fixed at construction.
//
// All fields are private; mutation happens only through TransitionTo.
type Order struct {
	id              kernel.UUID
	userID          kernel.UUID
	status          Status
	items           []LineItem
	shippingAddress Address
	billingAddress  Address
	version         int64
	createdAt       time.Time
	updatedAt       time.Time

	isConstructed bool
}

// NewOrder creates an order in PendingPayment status with version 1.
// At least one line item is required.
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []LineItem,
	shippingAddress Address,
	billingAddress Address,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	return &Order{
		id:              id,
		userID:          userID,
		status:          PendingPayment,
		items:           append([]LineItem(nil), items...),
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// placement rules. The stored status and version are trusted but still
// validated for shape.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	status Status,
	items []LineItem,
	shippingAddress Address,
	billingAddress Address,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order")
	}

	return &Order{
		id:              id,
		userID:          userID,
		status:          status,
		items:           append([]LineItem(nil), items...),
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the instance came from a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the identifier of the buyer.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// ShippingAddress returns the shipping address snapshot.
func (o *Order) ShippingAddress() Address {
	return o.shippingAddress
}

// BillingAddress returns the billing address snapshot.
func (o *Order) BillingAddress() Address {
	return o.billingAddress
}

// Version returns the optimistic-concurrency version.
func (o *Order) Version() int64 {
	return o.version
}

// CreatedAt returns the placement time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last applied transition.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Total returns the sum of all line-item subtotals.
func (o *Order) Total() kernel.Money {
	total := kernel.Zero()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TransitionTo moves the order along the edge status -> target, bumping the
// version and updatedAt. On an InvalidTransitionError the order is unchanged.
//
// Requesting the current status is not handled here; the ledger treats that
// case as an idempotent no-op before calling TransitionTo.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.version++
	o.updatedAt = now
	return nil
}

// TransitionOccurred is the event emitted after a transition has been durably
// committed. The notification dispatcher subscribes to these.
type TransitionOccurred struct {
	OrderID kernel.UUID
	UserID  kernel.UUID
	From    Status
	To      Status
	At      time.Time
}
