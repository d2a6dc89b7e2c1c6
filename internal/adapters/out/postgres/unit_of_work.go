// Package postgres provides the GORM-based unit of work tying the order,
// shipment and notification-log repositories to one database transaction.
package postgres

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM connection.
// Each business operation gets a fresh instance with its own transaction state.
type GormUnitOfWorkFactory struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The clock stamps notification sent_at times.
func NewGormUnitOfWorkFactory(db *gorm.DB, now func() time.Time) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, now: now}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db, now: f.now}
}

// GormUnitOfWork coordinates one database transaction across the repositories.
// Repositories obtained before Begin run on the bare connection; after Begin
// they run inside the transaction.
type GormUnitOfWork struct {
	db  *gorm.DB
	tx  *gorm.DB
	now func() time.Time
}

// Begin starts a new database transaction. Calling Begin again on an instance
// with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the current transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the current transaction. A no-op when nothing is open, so
// it is safe to defer alongside an explicit Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return nil
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// ShipmentRepository returns a shipment repository bound to the transaction.
func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn())
}

// NotificationLogRepository returns a notification log repository bound to the
// transaction.
func (uow *GormUnitOfWork) NotificationLogRepository() ports.NotificationLogRepository {
	return notificationrepo.NewGormNotificationLogRepository(uow.conn(), uow.now)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
