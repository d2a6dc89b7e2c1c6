package shipmentrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShipmentRepository implements ShipmentRepository using GORM.
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// Add saves a new assignment and any events it already carries.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return r.appendEvents(ctx, aggregate, 0)
}

// Update saves the assignment's current state and appends the events not yet
// stored. Stored event rows are never rewritten.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AssignmentDTO{}).
		Where("tracking_id = ?", dto.TrackingID).
		Updates(map[string]any{
			"current_status":   dto.CurrentStatus,
			"last_advanced_at": dto.LastAdvancedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("trackingId", dto.TrackingID)
	}

	var stored int64
	err := r.db.WithContext(ctx).Model(&StatusEventDTO{}).
		Where("tracking_id = ?", dto.TrackingID).
		Count(&stored).Error
	if err != nil {
		return err
	}

	return r.appendEvents(ctx, aggregate, int(stored))
}

// GetByTrackingID retrieves an assignment with its full event log.
func (r *GormShipmentRepository) GetByTrackingID(
	ctx context.Context,
	trackingID string,
) (*shipment.Assignment, error) {
	if trackingID == "" {
		return nil, errs.NewValueIsRequiredError("trackingId")
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).First(&dto, "tracking_id = ?", trackingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingId", trackingID)
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetByOrderID retrieves the assignment belonging to an order.
func (r *GormShipmentRepository) GetByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*shipment.Assignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetActive retrieves all assignments still expecting carrier events.
func (r *GormShipmentRepository) GetActive(ctx context.Context) ([]*shipment.Assignment, error) {
	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("current_status NOT IN ?", []int{
			int(shipment.CanonicalDelivered),
			int(shipment.CanonicalReturned),
		}).
		Order("tracking_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*shipment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		assignment, loadErr := r.load(ctx, dto)
		if loadErr != nil {
			return nil, loadErr
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

func (r *GormShipmentRepository) load(ctx context.Context, dto AssignmentDTO) (*shipment.Assignment, error) {
	var eventDTOs []StatusEventDTO
	err := r.db.WithContext(ctx).
		Where("tracking_id = ?", dto.TrackingID).
		Order("seq").
		Find(&eventDTOs).Error
	if err != nil {
		return nil, err
	}

	return toDomain(dto, eventDTOs)
}

func (r *GormShipmentRepository) appendEvents(
	ctx context.Context,
	aggregate *shipment.Assignment,
	stored int,
) error {
	events := aggregate.Events()
	if stored >= len(events) {
		return nil
	}

	rows := make([]StatusEventDTO, 0, len(events)-stored)
	for i := stored; i < len(events); i++ {
		rows = append(rows, eventFromDomain(aggregate.TrackingID(), i, events[i]))
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}
