// Package ports defines the contracts between the application core and the
// infrastructure adapters: persistence, the carrier API, channel senders, the
// dedupe index and the transition event bus.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. The order must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists an already-transitioned order using an optimistic
	// concurrency check: the write only succeeds when the stored version is
	// exactly one behind the aggregate's. A lost race returns
	// errs.ErrVersionIsInvalid and writes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
