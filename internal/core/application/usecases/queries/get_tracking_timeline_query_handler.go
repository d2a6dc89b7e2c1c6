package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTrackingTimelineQueryHandler retrieves a shipping assignment and its
// event log from the database.
type GetTrackingTimelineQueryHandler struct {
	db *gorm.DB
}

// NewGetTrackingTimelineQueryHandler creates a handler for timeline queries.
// Requires a GORM database connection for query execution.
func NewGetTrackingTimelineQueryHandler(db *gorm.DB) GetTrackingTimelineQueryHandler {
	return GetTrackingTimelineQueryHandler{db: db}
}

// Handle executes the query. Returns ErrObjectNotFound when no assignment
// exists for the tracking id. Events come back sorted by application order.
func (h GetTrackingTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetTrackingTimelineQuery,
) (GetTrackingTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTrackingTimelineQueryResponse{}, err
	}

	resp, err := h.readAssignment(ctx, query.TrackingID())
	if err != nil {
		return GetTrackingTimelineQueryResponse{}, err
	}

	events, err := h.readEvents(ctx, query.TrackingID())
	if err != nil {
		return GetTrackingTimelineQueryResponse{}, err
	}
	resp.Events = events

	return resp, nil
}

func (h GetTrackingTimelineQueryHandler) readAssignment(
	ctx context.Context,
	trackingID string,
) (GetTrackingTimelineQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			tracking_id,
			order_id,
			carrier_id,
			current_status,
			last_advanced_at
		FROM shipping_assignments
		WHERE tracking_id = ?
	`, trackingID).Rows()
	if err != nil {
		return GetTrackingTimelineQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetTrackingTimelineQueryResponse{}, err
		}
		return GetTrackingTimelineQueryResponse{},
			errs.NewObjectNotFoundError("trackingId", trackingID)
	}

	var resp GetTrackingTimelineQueryResponse
	var orderID uuid.UUID
	var status int

	err = rows.Scan(
		&resp.TrackingID,
		&orderID,
		&resp.CarrierID,
		&status,
		&resp.LastAdvancedAt,
	)
	if err != nil {
		return GetTrackingTimelineQueryResponse{}, err
	}

	respOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
	if idErr != nil {
		return GetTrackingTimelineQueryResponse{}, idErr
	}
	resp.OrderID = respOrderID

	resp.CurrentStatus = shipment.CanonicalStatus(status).String()

	return resp, nil
}

func (h GetTrackingTimelineQueryHandler) readEvents(
	ctx context.Context,
	trackingID string,
) ([]TimelineEventResponse, error) {
	events := make([]TimelineEventResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			seq,
			external_event_id,
			raw_status,
			canonical_status,
			occurred_at,
			received_at,
			location,
			remarks
		FROM tracking_events
		WHERE tracking_id = ?
		ORDER BY seq
	`, trackingID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event TimelineEventResponse
		var canonical int

		err = rows.Scan(
			&event.Seq,
			&event.ExternalEventID,
			&event.RawStatus,
			&canonical,
			&event.OccurredAt,
			&event.ReceivedAt,
			&event.Location,
			&event.Remarks,
		)
		if err != nil {
			return nil, err
		}

		event.CanonicalStatus = shipment.CanonicalStatus(canonical).String()
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
