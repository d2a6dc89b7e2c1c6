package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrCarrierUnavailable is the unwrap target for CarrierUnavailableError.
var ErrCarrierUnavailable = errors.New("carrier unavailable")

// CarrierUnavailableError indicates the retry budget for a carrier call was
// exhausted (or its circuit breaker is open). The order is left in its prior
// state so the caller can retry manually or pick another carrier.
type CarrierUnavailableError struct {
	CarrierID string
	Cause     error
}

func (e *CarrierUnavailableError) Error() string {
	return fmt.Sprintf("carrier %s unavailable: %s", e.CarrierID, e.Cause)
}

func (e *CarrierUnavailableError) Unwrap() error {
	return ErrCarrierUnavailable
}

// ShipmentAddress is the carrier-facing address shape for pickup and delivery.
type ShipmentAddress struct {
	Line1      string
	City       string
	PostalCode string
	Region     string
	Country    string
}

// CreateShipmentRequest carries everything a carrier needs to accept a package.
type CreateShipmentRequest struct {
	CarrierID string
	OrderID   kernel.UUID
	Pickup    ShipmentAddress
	Delivery  ShipmentAddress
	WeightKg  float64
	CODAmount kernel.Money
}

// CreateShipmentResult is the carrier's acceptance of a shipment.
type CreateShipmentResult struct {
	TrackingID        string
	CarrierRef        string
	EstimatedDelivery time.Time
}

// RawTrackingEvent is one tracking update in the carrier's own vocabulary,
// as normalized at the transport boundary (webhook payload or poll response).
type RawTrackingEvent struct {
	ExternalEventID string
	RawStatus       string
	OccurredAt      time.Time
	Location        string
	Remarks         string
}

// CarrierClient is the outbound contract to carrier APIs. Implementations own
// timeouts, bounded retries with backoff, and the per-carrier circuit breaker;
// callers only see success or CarrierUnavailableError.
type CarrierClient interface {
	// CreateShipment registers a package with the carrier and returns the
	// tracking handle.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (CreateShipmentResult, error)

	// PollTracking fetches the tracking events the carrier currently reports
	// for a tracking id.
	PollTracking(ctx context.Context, carrierID, trackingID string) ([]RawTrackingEvent, error)
}
