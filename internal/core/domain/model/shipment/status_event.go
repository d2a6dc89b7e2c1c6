package shipment

import (
	"time"

	"fulfillment/internal/pkg/errs"
)

// StatusEvent is one tracking update as reported by a carrier, after vocabulary
// normalization. Immutable once stored: events are never mutated, only
// superseded by later entries in the assignment's log.
type StatusEvent struct {
	carrierID       string
	externalEventID string
	rawStatus       string
	canonicalStatus CanonicalStatus
	occurredAt      time.Time
	receivedAt      time.Time
	location        string
	remarks         string
}

// NewStatusEvent creates a validated status event. externalEventID may be
// empty; some carriers do not assign event ids, in which case deduplication
// falls back to the (canonicalStatus, occurredAt) tuple. location and remarks
// are optional.
func NewStatusEvent(
	carrierID string,
	externalEventID string,
	rawStatus string,
	canonicalStatus CanonicalStatus,
	occurredAt time.Time,
	receivedAt time.Time,
	location string,
	remarks string,
) (StatusEvent, error) {
	if carrierID == "" {
		return StatusEvent{}, errs.NewValueIsRequiredError("carrierId")
	}
	if rawStatus == "" {
		return StatusEvent{}, errs.NewValueIsRequiredError("rawStatus")
	}
	if err := canonicalStatus.Validate(); err != nil {
		return StatusEvent{}, err
	}
	if occurredAt.IsZero() {
		return StatusEvent{}, errs.NewValueIsRequiredError("occurredAt")
	}

	return StatusEvent{
		carrierID:       carrierID,
		externalEventID: externalEventID,
		rawStatus:       rawStatus,
		canonicalStatus: canonicalStatus,
		occurredAt:      occurredAt,
		receivedAt:      receivedAt,
		location:        location,
		remarks:         remarks,
	}, nil
}

// CarrierID returns the id of the reporting carrier.
func (e StatusEvent) CarrierID() string { return e.carrierID }

// ExternalEventID returns the carrier-assigned event id, or "" when the
// carrier does not assign one.
func (e StatusEvent) ExternalEventID() string { return e.externalEventID }

// RawStatus returns the status string in the carrier's own vocabulary.
func (e StatusEvent) RawStatus() string { return e.rawStatus }

// CanonicalStatus returns the mapped carrier-agnostic status.
func (e StatusEvent) CanonicalStatus() CanonicalStatus { return e.canonicalStatus }

// OccurredAt returns the carrier-reported event time.
func (e StatusEvent) OccurredAt() time.Time { return e.occurredAt }

// ReceivedAt returns the ingestion time.
func (e StatusEvent) ReceivedAt() time.Time { return e.receivedAt }

// Location returns the carrier-reported location, if any.
func (e StatusEvent) Location() string { return e.location }

// Remarks returns free-form carrier remarks, if any.
func (e StatusEvent) Remarks() string { return e.remarks }
