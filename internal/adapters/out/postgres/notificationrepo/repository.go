package notificationrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPreferenceRepository implements PreferenceRepository using GORM.
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a new GORM preference repository.
func NewGormPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// Get retrieves the preference record for a user.
func (r *GormPreferenceRepository) Get(
	ctx context.Context,
	userID kernel.UUID,
) (*notification.Preference, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto PreferenceDTO
	err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("userId", userID.String())
		}
		return nil, err
	}

	return preferenceToDomain(dto)
}

// GormNotificationLogRepository implements NotificationLogRepository using GORM.
// Unlike the aggregate repositories it is used outside the unit of work: each
// row is an independent delivery attempt and partial progress must survive.
type GormNotificationLogRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormNotificationLogRepository creates a new GORM notification log repository.
func NewGormNotificationLogRepository(db *gorm.DB, now func() time.Time) *GormNotificationLogRepository {
	return &GormNotificationLogRepository{db: db, now: now}
}

// Record stores a new notification row.
func (r *GormNotificationLogRepository) Record(ctx context.Context, n notification.Notification) error {
	dto := notificationFromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateDelivery updates the delivery status and attempt count of a row.
// Reaching SENT also stamps the sent_at time.
func (r *GormNotificationLogRepository) UpdateDelivery(
	ctx context.Context,
	id kernel.UUID,
	status notification.DeliveryStatus,
	attempts int,
) error {
	updates := map[string]any{
		"status":   string(status),
		"attempts": attempts,
	}
	if status == notification.DeliverySent {
		updates["sent_at"] = r.now()
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notificationId", id.String())
	}

	return nil
}

// GetFailed retrieves FAILED rows that still have attempt budget left.
func (r *GormNotificationLogRepository) GetFailed(
	ctx context.Context,
	maxAttempts int,
) ([]notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", string(notification.DeliveryFailed), maxAttempts).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	rows := make([]notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, convErr := notificationToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		rows = append(rows, n)
	}

	return rows, nil
}
