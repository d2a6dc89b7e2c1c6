// Package notificationrepo persists notification preferences and the
// per-channel delivery log with GORM. Preference settings are stored as JSON
// columns; their shape varies per user and is only ever read back whole.
package notificationrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// PreferenceDTO is the database row for one user's notification preferences.
// Empty quiet-hours bounds mean no window is configured.
type PreferenceDTO struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TypeSettings    string    `gorm:"type:jsonb"`
	ChannelSwitches string    `gorm:"type:jsonb"`
	QuietStart      string
	QuietEnd        string
	Timezone        string
}

// TableName overrides GORM's default naming to use "notification_preferences".
func (PreferenceDTO) TableName() string {
	return "notification_preferences"
}

type typeSettingJSON struct {
	Enabled  bool     `json:"enabled"`
	Channels []string `json:"channels"`
}

// NotificationDTO is one row of the notification delivery log.
type NotificationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Type      int
	Priority  int
	Channel   int
	DedupeKey string `gorm:"uniqueIndex"`
	Subject   string
	Body      string
	Status    string `gorm:"index"`
	Attempts  int
	CreatedAt time.Time
	SentAt    *time.Time
}

// TableName overrides GORM's default naming to use "notifications".
func (NotificationDTO) TableName() string {
	return "notifications"
}

func notificationFromDomain(n notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID.Bytes(),
		UserID:    n.UserID.Bytes(),
		OrderID:   n.OrderID.Bytes(),
		Type:      int(n.Type),
		Priority:  int(n.Priority),
		Channel:   int(n.Channel),
		DedupeKey: n.DedupeKey,
		Subject:   n.Subject,
		Body:      n.Body,
		Status:    string(n.Status),
		Attempts:  n.Attempts,
		CreatedAt: n.CreatedAt,
		SentAt:    n.SentAt,
	}
}

func notificationToDomain(dto NotificationDTO) (notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return notification.Notification{}, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return notification.Notification{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return notification.Notification{}, err
	}

	return notification.Notification{
		ID:        id,
		UserID:    userID,
		OrderID:   orderID,
		Type:      notification.Type(dto.Type),
		Priority:  notification.Priority(dto.Priority),
		Channel:   notification.Channel(dto.Channel),
		DedupeKey: dto.DedupeKey,
		Subject:   dto.Subject,
		Body:      dto.Body,
		Status:    notification.DeliveryStatus(dto.Status),
		Attempts:  dto.Attempts,
		CreatedAt: dto.CreatedAt,
		SentAt:    dto.SentAt,
	}, nil
}

func preferenceToDomain(dto PreferenceDTO) (*notification.Preference, error) {
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	typeSettings, err := decodeTypeSettings(dto.TypeSettings)
	if err != nil {
		return nil, err
	}
	switches, err := decodeChannelSwitches(dto.ChannelSwitches)
	if err != nil {
		return nil, err
	}

	quiet := notification.DisabledQuietHours()
	if dto.QuietStart != "" && dto.QuietEnd != "" {
		quiet, err = notification.NewQuietHours(dto.QuietStart, dto.QuietEnd)
		if err != nil {
			return nil, err
		}
	}

	timezone := time.UTC
	if dto.Timezone != "" {
		timezone, err = time.LoadLocation(dto.Timezone)
		if err != nil {
			return nil, err
		}
	}

	return notification.NewPreference(userID, typeSettings, switches, quiet, timezone)
}

func decodeTypeSettings(raw string) (map[notification.Type]notification.TypePreference, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded map[string]typeSettingJSON
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	settings := make(map[notification.Type]notification.TypePreference, len(decoded))
	for typeName, setting := range decoded {
		notifType, ok := typeFromString(typeName)
		if !ok {
			continue
		}
		channels := make([]notification.Channel, 0, len(setting.Channels))
		for _, channelName := range setting.Channels {
			if channel, known := channelFromString(channelName); known {
				channels = append(channels, channel)
			}
		}
		settings[notifType] = notification.TypePreference{
			Enabled:  setting.Enabled,
			Channels: channels,
		}
	}
	return settings, nil
}

func decodeChannelSwitches(raw string) (map[notification.Channel]bool, error) {
	if raw == "" {
		return nil, nil
	}

	var decoded map[string]bool
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	switches := make(map[notification.Channel]bool, len(decoded))
	for channelName, enabled := range decoded {
		if channel, known := channelFromString(channelName); known {
			switches[channel] = enabled
		}
	}
	return switches, nil
}

func typeFromString(s string) (notification.Type, bool) {
	switch s {
	case "order_update":
		return notification.TypeOrderUpdate, true
	case "delivery_update":
		return notification.TypeDeliveryUpdate, true
	case "security_alert":
		return notification.TypeSecurityAlert, true
	default:
		return notification.TypeUnknown, false
	}
}

func channelFromString(s string) (notification.Channel, bool) {
	switch s {
	case "email":
		return notification.ChannelEmail, true
	case "sms":
		return notification.ChannelSMS, true
	case "push":
		return notification.ChannelPush, true
	case "in_app":
		return notification.ChannelInApp, true
	default:
		return notification.ChannelUnknown, false
	}
}
