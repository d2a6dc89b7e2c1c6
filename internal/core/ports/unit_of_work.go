package ports

import "context"

// UnitOfWorkFactory creates a fresh UnitOfWork per command, keeping
// concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Client code manages the
// lifecycle explicitly: Begin, repository work, then Commit or Rollback.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// successful Commit; it becomes a no-op.
	Rollback(ctx context.Context) error

	// OrderRepository returns an order repository bound to the transaction.
	OrderRepository() OrderRepository

	// ShipmentRepository returns a shipment repository bound to the transaction.
	ShipmentRepository() ShipmentRepository

	// NotificationLogRepository returns a notification log repository bound to
	// the transaction.
	NotificationLogRepository() NotificationLogRepository
}
