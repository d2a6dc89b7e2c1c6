package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// PreferenceRepository is the read contract for notification preferences.
type PreferenceRepository interface {
	// Get retrieves the preference record for a user. A missing record returns
	// errs.ErrObjectNotFound; the dispatcher resolves that with the documented
	// defaults rather than failing.
	Get(ctx context.Context, userID kernel.UUID) (*notification.Preference, error)
}

// NotificationLogRepository persists per-channel notification attempts.
type NotificationLogRepository interface {
	// Record stores a new notification row.
	Record(ctx context.Context, n notification.Notification) error

	// UpdateDelivery updates the delivery status and attempt count of a row.
	UpdateDelivery(ctx context.Context, id kernel.UUID, status notification.DeliveryStatus, attempts int) error

	// GetFailed retrieves FAILED rows with fewer than maxAttempts attempts,
	// for the retry job.
	GetFailed(ctx context.Context, maxAttempts int) ([]notification.Notification, error)
}
