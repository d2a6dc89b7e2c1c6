package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
)

// Error is the uniform error body for all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type AddressRequest struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Region     string `json:"region"`
	Country    string `json:"country"`
}

type LineItemRequest struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

type CreateOrderRequest struct {
	OrderID         string            `json:"order_id,omitempty"`
	UserID          string            `json:"user_id"`
	Items           []LineItemRequest `json:"items"`
	ShippingAddress AddressRequest    `json:"shipping_address"`
	BillingAddress  AddressRequest    `json:"billing_address"`
}

type CancelOrderRequest struct {
	Actor  string `json:"actor,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type PaymentConfirmationRequest struct {
	OrderID    string `json:"order_id"`
	PaymentRef string `json:"payment_ref"`
}

type TransitionRequest struct {
	Target   string `json:"target"`
	Actor    string `json:"actor"`
	Evidence string `json:"evidence,omitempty"`
}

type CreateShipmentRequest struct {
	CarrierID string  `json:"carrier_id"`
	WeightKg  float64 `json:"weight_kg"`
	CODCents  int64   `json:"cod_cents,omitempty"`
}

type CarrierWebhookRequest struct {
	EventID    string    `json:"event_id,omitempty"`
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
	Location   string    `json:"location,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
}

type OrderResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	Version    int64     `json:"version"`
	TotalCents int64     `json:"total_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type OrderItemResponse struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

type OrderDetailResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	Status     string              `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	TotalCents int64               `json:"total_cents"`
	Version    int64               `json:"version"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ShipmentResponse struct {
	TrackingID    string `json:"tracking_id"`
	OrderID       string `json:"order_id"`
	CarrierID     string `json:"carrier_id"`
	CurrentStatus string `json:"current_status"`
}

type WebhookResponse struct {
	Result   string `json:"result"`
	Advanced bool   `json:"advanced"`
}

type RateResponse struct {
	CarrierID   string `json:"carrier_id"`
	CarrierName string `json:"carrier_name"`
	CostCents   int64  `json:"cost_cents"`
	TransitDays int    `json:"transit_days"`
	Recommended bool   `json:"recommended"`
}

type TimelineEventResponse struct {
	Seq             int       `json:"seq"`
	ExternalEventID string    `json:"external_event_id,omitempty"`
	RawStatus       string    `json:"raw_status"`
	CanonicalStatus string    `json:"canonical_status"`
	OccurredAt      time.Time `json:"occurred_at"`
	ReceivedAt      time.Time `json:"received_at"`
	Location        string    `json:"location,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
}

type TimelineResponse struct {
	TrackingID     string                  `json:"tracking_id"`
	OrderID        string                  `json:"order_id"`
	CarrierID      string                  `json:"carrier_id"`
	CurrentStatus  string                  `json:"current_status"`
	LastAdvancedAt time.Time               `json:"last_advanced_at"`
	Events         []TimelineEventResponse `json:"events"`
}

func orderToResponse(o *order.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID().String(),
		UserID:     o.UserID().String(),
		Status:     o.Status().String(),
		Version:    o.Version(),
		TotalCents: o.Total().Cents(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func orderDetailToResponse(resp queries.GetOrderQueryResponse) OrderDetailResponse {
	items := make([]OrderItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, OrderItemResponse{
			SKU:            item.SKU,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}

	return OrderDetailResponse{
		ID:         resp.ID.String(),
		UserID:     resp.UserID.String(),
		Status:     resp.Status,
		Items:      items,
		TotalCents: resp.TotalCents,
		Version:    resp.Version,
		CreatedAt:  resp.CreatedAt,
		UpdatedAt:  resp.UpdatedAt,
	}
}

func shipmentToResponse(assignment *shipment.Assignment) ShipmentResponse {
	return ShipmentResponse{
		TrackingID:    assignment.TrackingID(),
		OrderID:       assignment.OrderID().String(),
		CarrierID:     assignment.CarrierID(),
		CurrentStatus: assignment.CurrentStatus().String(),
	}
}

func timelineToResponse(resp queries.GetTrackingTimelineQueryResponse) TimelineResponse {
	events := make([]TimelineEventResponse, 0, len(resp.Events))
	for _, event := range resp.Events {
		events = append(events, TimelineEventResponse{
			Seq:             event.Seq,
			ExternalEventID: event.ExternalEventID,
			RawStatus:       event.RawStatus,
			CanonicalStatus: event.CanonicalStatus,
			OccurredAt:      event.OccurredAt,
			ReceivedAt:      event.ReceivedAt,
			Location:        event.Location,
			Remarks:         event.Remarks,
		})
	}

	return TimelineResponse{
		TrackingID:     resp.TrackingID,
		OrderID:        resp.OrderID.String(),
		CarrierID:      resp.CarrierID,
		CurrentStatus:  resp.CurrentStatus,
		LastAdvancedAt: resp.LastAdvancedAt,
		Events:         events,
	}
}
