package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRepository is the persistence contract for shipping assignments and
// their append-only event logs.
type ShipmentRepository interface {
	// Add persists a new assignment. The tracking id must not already exist.
	Add(ctx context.Context, aggregate *shipment.Assignment) error

	// Update persists the assignment's current status and appends any events
	// not yet stored. Stored events are never rewritten.
	Update(ctx context.Context, aggregate *shipment.Assignment) error

	// GetByTrackingID retrieves an assignment with its full event log, or
	// errs.ErrObjectNotFound.
	GetByTrackingID(ctx context.Context, trackingID string) (*shipment.Assignment, error)

	// GetByOrderID retrieves the assignment belonging to an order, or
	// errs.ErrObjectNotFound. An order has at most one assignment.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*shipment.Assignment, error)

	// GetActive retrieves all assignments whose canonical status is not yet
	// delivered or returned. The tracking poll job iterates these.
	GetActive(ctx context.Context) ([]*shipment.Assignment, error)
}
