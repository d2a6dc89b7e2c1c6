package shipment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not
// created through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewAssignment or RestoreAssignment")

// ApplyResult classifies the outcome of applying a status event.
type ApplyResult int

const (
	// EventApplied means the event was appended to the log. Whether it advanced
	// the current status is reported separately.
	EventApplied ApplyResult = iota

	// EventDeduplicated means an identical event was already stored; nothing
	// changed. This is an explicit non-error outcome, not a failure.
	EventDeduplicated
)

// ApplyOutcome reports what happened to an ingested event. Callers and tests
// must be able to tell Applied-and-advanced, Applied-for-audit-only, and
// Deduplicated apart.
type ApplyOutcome struct {
	Result   ApplyResult
	Advanced bool
}

// Assignment links exactly one order to a carrier tracking handle and holds
// the append-only log of applied status events.
//
// Invariants:
//   - currentStatus only advances on events whose occurredAt is not earlier
//     than the latest advancing event's occurredAt; older events are kept for
//     audit but never move the status backwards.
//   - an event with an already-seen externalEventID, or an identical
//     (canonicalStatus, occurredAt) tuple when the id is absent, is a no-op.
type Assignment struct {
	orderID        kernel.UUID
	carrierID      string
	trackingID     string
	currentStatus  CanonicalStatus
	lastAdvancedAt time.Time
	events         []StatusEvent

	isConstructed bool
}

// NewAssignment creates an assignment for a freshly created shipment. The
// carrier has accepted the package, so the canonical status starts at shipped.
func NewAssignment(orderID kernel.UUID, carrierID, trackingID string) (*Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if carrierID == "" {
		return nil, errs.NewValueIsRequiredError("carrierId")
	}
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingId")
	}

	return &Assignment{
		orderID:       orderID,
		carrierID:     carrierID,
		trackingID:    trackingID,
		currentStatus: CanonicalShipped,
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an assignment from persistence, including its
// event log and the occurredAt of the latest advancing event.
func RestoreAssignment(
	orderID kernel.UUID,
	carrierID string,
	trackingID string,
	currentStatus CanonicalStatus,
	lastAdvancedAt time.Time,
	events []StatusEvent,
) (*Assignment, error) {
	if err := errors.Join(orderID.Validate(), currentStatus.Validate()); err != nil {
		return nil, err
	}
	if carrierID == "" {
		return nil, errs.NewValueIsRequiredError("carrierId")
	}
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingId")
	}

	return &Assignment{
		orderID:        orderID,
		carrierID:      carrierID,
		trackingID:     trackingID,
		currentStatus:  currentStatus,
		lastAdvancedAt: lastAdvancedAt,
		events:         append([]StatusEvent(nil), events...),
		isConstructed:  true,
	}, nil
}

// Validate ensures the instance came from a constructor.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// OrderID returns the id of the order this shipment belongs to.
func (a *Assignment) OrderID() kernel.UUID { return a.orderID }

// CarrierID returns the committed carrier's id.
func (a *Assignment) CarrierID() string { return a.carrierID }

// TrackingID returns the carrier-assigned tracking identifier.
func (a *Assignment) TrackingID() string { return a.trackingID }

// CurrentStatus returns the current canonical shipping status.
func (a *Assignment) CurrentStatus() CanonicalStatus { return a.currentStatus }

// LastAdvancedAt returns the occurredAt of the latest advancing event.
func (a *Assignment) LastAdvancedAt() time.Time { return a.lastAdvancedAt }

// Events returns a copy of the append-only event log, in application order.
func (a *Assignment) Events() []StatusEvent {
	return append([]StatusEvent(nil), a.events...)
}

// Apply runs the deduplication and ordering rules against the incoming event.
//
//   - Duplicate (seen externalEventID, or identical tuple when the id is
//     absent): nothing changes, EventDeduplicated.
//   - Out of order (occurredAt earlier than the latest advancing event):
//     appended for audit, current status untouched, EventApplied/Advanced=false.
//   - Otherwise: appended, current status and lastAdvancedAt updated,
//     EventApplied/Advanced=true.
func (a *Assignment) Apply(event StatusEvent) ApplyOutcome {
	if a.isDuplicate(event) {
		return ApplyOutcome{Result: EventDeduplicated}
	}

	if !a.lastAdvancedAt.IsZero() && event.OccurredAt().Before(a.lastAdvancedAt) {
		a.events = append(a.events, event)
		return ApplyOutcome{Result: EventApplied, Advanced: false}
	}

	a.events = append(a.events, event)
	a.currentStatus = event.CanonicalStatus()
	a.lastAdvancedAt = event.OccurredAt()
	return ApplyOutcome{Result: EventApplied, Advanced: true}
}

func (a *Assignment) isDuplicate(event StatusEvent) bool {
	for _, stored := range a.events {
		if event.ExternalEventID() != "" {
			if stored.ExternalEventID() == event.ExternalEventID() {
				return true
			}
			continue
		}
		if stored.CanonicalStatus() == event.CanonicalStatus() &&
			stored.OccurredAt().Equal(event.OccurredAt()) {
			return true
		}
	}
	return false
}
