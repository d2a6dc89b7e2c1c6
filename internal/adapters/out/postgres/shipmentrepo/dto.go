// Package shipmentrepo persists shipping assignments and their append-only
// status event logs with GORM. Event rows are insert-only; an assignment's
// mutable state is just its current status and last-advanced timestamp.
package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// AssignmentDTO is the database row for a shipping assignment.
type AssignmentDTO struct {
	TrackingID     string    `gorm:"primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CarrierID      string    `gorm:"index"`
	CurrentStatus  int       `gorm:"index"`
	LastAdvancedAt time.Time
}

// TableName overrides GORM's default naming to use "shipping_assignments".
func (AssignmentDTO) TableName() string {
	return "shipping_assignments"
}

// StatusEventDTO is one tracking event row. Seq preserves application order
// within a tracking id.
type StatusEventDTO struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	TrackingID      string `gorm:"index:idx_tracking_seq,priority:1"`
	Seq             int    `gorm:"index:idx_tracking_seq,priority:2"`
	CarrierID       string
	ExternalEventID string `gorm:"index"`
	RawStatus       string
	CanonicalStatus int
	OccurredAt      time.Time
	ReceivedAt      time.Time
	Location        string
	Remarks         string
}

// TableName overrides GORM's default naming to use "tracking_events".
func (StatusEventDTO) TableName() string {
	return "tracking_events"
}

func fromDomain(aggregate *shipment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		TrackingID:     aggregate.TrackingID(),
		OrderID:        aggregate.OrderID().Bytes(),
		CarrierID:      aggregate.CarrierID(),
		CurrentStatus:  int(aggregate.CurrentStatus()),
		LastAdvancedAt: aggregate.LastAdvancedAt(),
	}
}

func eventFromDomain(trackingID string, seq int, event shipment.StatusEvent) StatusEventDTO {
	return StatusEventDTO{
		TrackingID:      trackingID,
		Seq:             seq,
		CarrierID:       event.CarrierID(),
		ExternalEventID: event.ExternalEventID(),
		RawStatus:       event.RawStatus(),
		CanonicalStatus: int(event.CanonicalStatus()),
		OccurredAt:      event.OccurredAt(),
		ReceivedAt:      event.ReceivedAt(),
		Location:        event.Location(),
		Remarks:         event.Remarks(),
	}
}

func toDomain(dto AssignmentDTO, eventDTOs []StatusEventDTO) (*shipment.Assignment, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	events := make([]shipment.StatusEvent, 0, len(eventDTOs))
	for _, e := range eventDTOs {
		event, eventErr := shipment.NewStatusEvent(
			e.CarrierID,
			e.ExternalEventID,
			e.RawStatus,
			shipment.CanonicalStatus(e.CanonicalStatus),
			e.OccurredAt,
			e.ReceivedAt,
			e.Location,
			e.Remarks,
		)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	return shipment.RestoreAssignment(
		orderID,
		dto.CarrierID,
		dto.TrackingID,
		shipment.CanonicalStatus(dto.CurrentStatus),
		dto.LastAdvancedAt,
		events,
	)
}
