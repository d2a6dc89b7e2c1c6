package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrIngestTrackingEventCommandIsNotConstructed is returned when an
// IngestTrackingEventCommand was not created through the constructor.
var ErrIngestTrackingEventCommandIsNotConstructed = errors.New(
	"IngestTrackingEventCommand must be created via NewIngestTrackingEventCommand constructor")

// IngestTrackingEventCommand carries one carrier tracking update, webhook or
// poll alike, in the carrier's raw vocabulary. The externalEventID may be
// empty; not every carrier assigns event ids.
type IngestTrackingEventCommand struct { //nolint:recvcheck //using for validation
	carrierID       string
	trackingID      string
	externalEventID string
	rawStatus       string
	occurredAt      time.Time
	location        string
	remarks         string

	guard guard.ConstructorGuard
}

// NewIngestTrackingEventCommand creates a validated ingestion request.
func NewIngestTrackingEventCommand(
	carrierID string,
	trackingID string,
	externalEventID string,
	rawStatus string,
	occurredAt time.Time,
	location string,
	remarks string,
) (IngestTrackingEventCommand, error) {
	cmd := IngestTrackingEventCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCarrierID(carrierID),
		cmd.setTrackingID(trackingID),
		cmd.setRawStatus(rawStatus),
		cmd.setOccurredAt(occurredAt),
	); err != nil {
		return IngestTrackingEventCommand{}, err
	}
	cmd.externalEventID = externalEventID
	cmd.location = location
	cmd.remarks = remarks

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c IngestTrackingEventCommand) Validate() error {
	return c.guard.Validate(ErrIngestTrackingEventCommandIsNotConstructed)
}

// CarrierID returns the reporting carrier.
func (c IngestTrackingEventCommand) CarrierID() string {
	return c.carrierID
}

// TrackingID returns the tracking identifier the event belongs to.
func (c IngestTrackingEventCommand) TrackingID() string {
	return c.trackingID
}

// ExternalEventID returns the carrier-assigned event id, or "".
func (c IngestTrackingEventCommand) ExternalEventID() string {
	return c.externalEventID
}

// RawStatus returns the status string in the carrier's vocabulary.
func (c IngestTrackingEventCommand) RawStatus() string {
	return c.rawStatus
}

// OccurredAt returns the carrier-reported event time.
func (c IngestTrackingEventCommand) OccurredAt() time.Time {
	return c.occurredAt
}

// Location returns the carrier-reported location, if any.
func (c IngestTrackingEventCommand) Location() string {
	return c.location
}

// Remarks returns free-form carrier remarks, if any.
func (c IngestTrackingEventCommand) Remarks() string {
	return c.remarks
}

func (c *IngestTrackingEventCommand) setCarrierID(carrierID string) error {
	if carrierID == "" {
		return errs.NewValueIsRequiredError("carrierId")
	}
	c.carrierID = carrierID
	return nil
}

func (c *IngestTrackingEventCommand) setTrackingID(trackingID string) error {
	if trackingID == "" {
		return errs.NewValueIsRequiredError("trackingId")
	}
	c.trackingID = trackingID
	return nil
}

func (c *IngestTrackingEventCommand) setRawStatus(rawStatus string) error {
	if rawStatus == "" {
		return errs.NewValueIsRequiredError("rawStatus")
	}
	c.rawStatus = rawStatus
	return nil
}

func (c *IngestTrackingEventCommand) setOccurredAt(occurredAt time.Time) error {
	if occurredAt.IsZero() {
		return errs.NewValueIsRequiredError("occurredAt")
	}
	c.occurredAt = occurredAt
	return nil
}
