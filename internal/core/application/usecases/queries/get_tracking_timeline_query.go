package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetTrackingTimelineQueryIsNotConstructed = errors.New(
		"GetTrackingTimelineQuery must be created via NewGetTrackingTimelineQuery constructor",
	)
)

// GetTrackingTimelineQuery retrieves a shipping assignment together with its
// full event history in application order. Out-of-order events kept for audit
// appear in the position they were applied, not chronologically.
type GetTrackingTimelineQuery struct {
	trackingID string

	guard guard.ConstructorGuard
}

// NewGetTrackingTimelineQuery creates a query for one tracking timeline.
func NewGetTrackingTimelineQuery(trackingID string) (GetTrackingTimelineQuery, error) {
	if trackingID == "" {
		return GetTrackingTimelineQuery{}, errs.NewValueIsRequiredError("trackingId")
	}

	return GetTrackingTimelineQuery{
		trackingID: trackingID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// TrackingID returns the carrier tracking identifier being queried.
func (q GetTrackingTimelineQuery) TrackingID() string {
	return q.trackingID
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetTrackingTimelineQueryIsNotConstructed if validation fails.
func (q GetTrackingTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetTrackingTimelineQueryIsNotConstructed)
}

// TimelineEventResponse represents one carrier event in the timeline.
type TimelineEventResponse struct {
	Seq             int
	ExternalEventID string
	RawStatus       string
	CanonicalStatus string
	OccurredAt      time.Time
	ReceivedAt      time.Time
	Location        string
	Remarks         string
}

// GetTrackingTimelineQueryResponse represents the assignment header plus its
// ordered event log.
type GetTrackingTimelineQueryResponse struct {
	TrackingID     string
	OrderID        kernel.UUID
	CarrierID      string
	CurrentStatus  string
	LastAdvancedAt time.Time
	Events         []TimelineEventResponse
}
