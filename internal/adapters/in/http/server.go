// Package http is the inbound HTTP adapter. It translates echo requests into
// commands and queries and maps application errors onto status codes.
package http

import (
	"context"
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OrderCreator places new orders.
type OrderCreator interface {
	Handle(ctx context.Context, command commands.CreateOrderCommand) (*order.Order, error)
}

// OrderTransitioner moves orders through the lifecycle graph.
type OrderTransitioner interface {
	Handle(ctx context.Context, command commands.TransitionOrderCommand) (*order.Order, error)
}

// ShipmentCreator runs the rate-shop-and-commit flow for one order.
type ShipmentCreator interface {
	Handle(ctx context.Context, command commands.CreateShipmentCommand) (*shipment.Assignment, error)
}

// TrackingIngestor applies one carrier tracking event.
type TrackingIngestor interface {
	Handle(ctx context.Context, command commands.IngestTrackingEventCommand) (shipment.ApplyOutcome, error)
}

// OrderReader serves single-order reads.
type OrderReader interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

// TimelineReader serves tracking timeline reads.
type TimelineReader interface {
	Handle(ctx context.Context, query queries.GetTrackingTimelineQuery) (queries.GetTrackingTimelineQueryResponse, error)
}

// RateReader prices packages against the carrier registry.
type RateReader interface {
	Handle(ctx context.Context, query queries.GetShippingRatesQuery) ([]queries.GetShippingRatesQueryResponse, error)
}

// Server wires the HTTP routes to the application use cases.
type Server struct {
	orderCreator     OrderCreator
	transitioner     OrderTransitioner
	shipmentCreator  ShipmentCreator
	trackingIngestor TrackingIngestor

	orderReader    OrderReader
	timelineReader TimelineReader
	rateReader     RateReader
}

// NewServer creates an HTTP server over the given use cases.
func NewServer(
	orderCreator OrderCreator,
	transitioner OrderTransitioner,
	shipmentCreator ShipmentCreator,
	trackingIngestor TrackingIngestor,
	orderReader OrderReader,
	timelineReader TimelineReader,
	rateReader RateReader,
) *Server {
	return &Server{
		orderCreator:     orderCreator,
		transitioner:     transitioner,
		shipmentCreator:  shipmentCreator,
		trackingIngestor: trackingIngestor,
		orderReader:      orderReader,
		timelineReader:   timelineReader,
		rateReader:       rateReader,
	}
}

// RegisterRoutes mounts all routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/transitions", s.TransitionOrder)
	api.POST("/orders/:id/shipment", s.CreateShipment)
	api.POST("/payments/confirmations", s.ConfirmPayment)
	api.POST("/webhooks/carriers/:carrierId", s.CarrierWebhook)
	api.GET("/shipments/:trackingId/timeline", s.GetTimeline)
	api.GET("/rates", s.GetRates)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// CreateOrder handles POST /api/v1/orders. The caller may supply the order id
// for idempotent placement; omitted ids are generated.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		parsed, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return writeError(ctx, err)
		}
		orderID = parsed
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return writeError(ctx, err)
	}

	items, err := itemsFromRequest(req.Items)
	if err != nil {
		return writeError(ctx, err)
	}

	shipping, err := addressFromRequest(req.ShippingAddress)
	if err != nil {
		return writeError(ctx, err)
	}
	billing, err := addressFromRequest(req.BillingAddress)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, userID, items, shipping, billing)
	if err != nil {
		return writeError(ctx, err)
	}

	placed, err := s.orderCreator.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderToResponse(placed))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.orderReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderDetailToResponse(resp))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel. Cancellation is only
// reachable before shipping; later attempts surface as a conflict.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	actor := req.Actor
	if actor == "" {
		actor = "customer"
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Cancelled, actor, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	cancelled, err := s.transitioner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(cancelled))
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions, the operator
// surface for lifecycle moves without a dedicated endpoint (warehouse start,
// refund flow).
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	target, ok := statusFromString(req.Target)
	if !ok {
		return writeError(ctx, errs.NewValueIsInvalidError("target"))
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, req.Actor, req.Evidence)
	if err != nil {
		return writeError(ctx, err)
	}

	moved, err := s.transitioner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(moved))
}

// ConfirmPayment handles POST /api/v1/payments/confirmations, the signal from
// the payment gateway that a settlement went through.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	var req PaymentConfirmationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(
		orderID, order.PaymentConfirmed, "payment-gateway", req.PaymentRef)
	if err != nil {
		return writeError(ctx, err)
	}

	confirmed, err := s.transitioner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderToResponse(confirmed))
}

// CreateShipment handles POST /api/v1/orders/:id/shipment.
func (s *Server) CreateShipment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var req CreateShipmentRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	codAmount, err := kernel.NewMoney(req.CODCents)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateShipmentCommand(orderID, req.CarrierID, req.WeightKg, codAmount)
	if err != nil {
		return writeError(ctx, err)
	}

	assignment, err := s.shipmentCreator.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, shipmentToResponse(assignment))
}

// CarrierWebhook handles POST /api/v1/webhooks/carriers/:carrierId. Carriers
// post status updates in their own vocabulary; dedup and ordering happen in
// the ingestion use case, so replays are safe to answer with 200.
func (s *Server) CarrierWebhook(ctx echo.Context) error {
	var req CarrierWebhookRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewIngestTrackingEventCommand(
		ctx.Param("carrierId"),
		req.TrackingID,
		req.EventID,
		req.Status,
		req.OccurredAt,
		req.Location,
		req.Remarks,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	outcome, err := s.trackingIngestor.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	result := "applied"
	if outcome.Result == shipment.EventDeduplicated {
		result = "deduplicated"
	}

	return ctx.JSON(http.StatusOK, WebhookResponse{
		Result:   result,
		Advanced: outcome.Advanced,
	})
}

// GetTimeline handles GET /api/v1/shipments/:trackingId/timeline.
func (s *Server) GetTimeline(ctx echo.Context) error {
	query, err := queries.NewGetTrackingTimelineQuery(ctx.Param("trackingId"))
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.timelineReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, timelineToResponse(resp))
}

// GetRates handles GET /api/v1/rates?weight_kg=&cod_cents=.
func (s *Server) GetRates(ctx echo.Context) error {
	weightKg, err := strconv.ParseFloat(ctx.QueryParam("weight_kg"), 64)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidError("weight_kg"))
	}

	codAmount := kernel.Zero()
	if raw := ctx.QueryParam("cod_cents"); raw != "" {
		cents, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return writeError(ctx, errs.NewValueIsInvalidError("cod_cents"))
		}
		codAmount, err = kernel.NewMoney(cents)
		if err != nil {
			return writeError(ctx, err)
		}
	}

	query, err := queries.NewGetShippingRatesQuery(weightKg, codAmount)
	if err != nil {
		return writeError(ctx, err)
	}

	options, err := s.rateReader.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	rates := make([]RateResponse, 0, len(options))
	for _, option := range options {
		rates = append(rates, RateResponse{
			CarrierID:   option.CarrierID,
			CarrierName: option.CarrierName,
			CostCents:   option.CostCents,
			TransitDays: option.TransitDays,
			Recommended: option.Recommended,
		})
	}

	return ctx.JSON(http.StatusOK, rates)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func itemsFromRequest(reqItems []LineItemRequest) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(reqItems))
	for _, reqItem := range reqItems {
		price, err := kernel.NewMoney(reqItem.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		item, err := order.NewLineItem(reqItem.SKU, reqItem.Name, price, reqItem.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func addressFromRequest(req AddressRequest) (order.Address, error) {
	return order.NewAddress(req.Line1, req.City, req.PostalCode, req.Region, req.Country)
}

func statusFromString(s string) (order.Status, bool) {
	statuses := map[string]order.Status{
		"PendingPayment":   order.PendingPayment,
		"PaymentConfirmed": order.PaymentConfirmed,
		"Processing":       order.Processing,
		"Shipped":          order.Shipped,
		"OutForDelivery":   order.OutForDelivery,
		"Delivered":        order.Delivered,
		"Cancelled":        order.Cancelled,
		"RefundRequested":  order.RefundRequested,
		"Refunded":         order.Refunded,
	}
	status, ok := statuses[s]
	return status, ok
}
