// Package carrierapi talks to the carriers' shipping APIs over HTTP. It owns
// timeouts, bounded retries with jittered backoff and a per-carrier circuit
// breaker; callers only ever see a result or CarrierUnavailableError.
package carrierapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// Config controls the HTTP behavior shared by all carriers. BaseURLs maps
// carrier ids to their API roots; a carrier without an entry cannot be called.
type Config struct {
	BaseURLs         map[string]string
	Timeout          time.Duration
	MaxRetries       int
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// HTTPCarrierClient implements ports.CarrierClient against the carriers'
// HTTP APIs.
type HTTPCarrierClient struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu       sync.Mutex
	breakers map[string]*breaker
}

// NewHTTPCarrierClient creates a carrier client. Zero config values fall back
// to 10s timeout, 3 retries and a 5-failure/30s breaker.
func NewHTTPCarrierClient(cfg Config, logger *slog.Logger, now func() time.Time) *HTTPCarrierClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	return &HTTPCarrierClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        now,
		breakers:   make(map[string]*breaker),
	}
}

type createShipmentWire struct {
	OrderID  string      `json:"order_id"`
	Pickup   addressWire `json:"pickup"`
	Delivery addressWire `json:"delivery"`
	WeightKg float64     `json:"weight_kg"`
	CODCents int64       `json:"cod_cents,omitempty"`
}

type addressWire struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Region     string `json:"region"`
	Country    string `json:"country"`
}

type createShipmentResponseWire struct {
	TrackingID        string    `json:"tracking_id"`
	CarrierRef        string    `json:"carrier_ref"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

type trackingEventWire struct {
	EventID    string    `json:"event_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
	Location   string    `json:"location"`
	Remarks    string    `json:"remarks"`
}

type pollTrackingResponseWire struct {
	Events []trackingEventWire `json:"events"`
}

// CreateShipment registers a package with the carrier and returns the
// tracking handle.
func (c *HTTPCarrierClient) CreateShipment(
	ctx context.Context,
	req ports.CreateShipmentRequest,
) (ports.CreateShipmentResult, error) {
	wire := createShipmentWire{
		OrderID:  req.OrderID.String(),
		Pickup:   addressToWire(req.Pickup),
		Delivery: addressToWire(req.Delivery),
		WeightKg: req.WeightKg,
		CODCents: req.CODAmount.Cents(),
	}

	raw, err := c.call(ctx, req.CarrierID, http.MethodPost, "/shipments", wire)
	if err != nil {
		return ports.CreateShipmentResult{}, err
	}

	var resp createShipmentResponseWire
	if err = json.Unmarshal(raw, &resp); err != nil {
		return ports.CreateShipmentResult{}, &ports.CarrierUnavailableError{
			CarrierID: req.CarrierID,
			Cause:     fmt.Errorf("malformed response: %w", err),
		}
	}

	return ports.CreateShipmentResult{
		TrackingID:        resp.TrackingID,
		CarrierRef:        resp.CarrierRef,
		EstimatedDelivery: resp.EstimatedDelivery,
	}, nil
}

// PollTracking fetches the tracking events the carrier currently reports for
// a tracking id.
func (c *HTTPCarrierClient) PollTracking(
	ctx context.Context,
	carrierID string,
	trackingID string,
) ([]ports.RawTrackingEvent, error) {
	path := "/tracking/" + trackingID + "/events"
	raw, err := c.call(ctx, carrierID, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp pollTrackingResponseWire
	if err = json.Unmarshal(raw, &resp); err != nil {
		return nil, &ports.CarrierUnavailableError{
			CarrierID: carrierID,
			Cause:     fmt.Errorf("malformed response: %w", err),
		}
	}

	events := make([]ports.RawTrackingEvent, 0, len(resp.Events))
	for _, event := range resp.Events {
		events = append(events, ports.RawTrackingEvent{
			ExternalEventID: event.EventID,
			RawStatus:       event.Status,
			OccurredAt:      event.OccurredAt,
			Location:        event.Location,
			Remarks:         event.Remarks,
		})
	}

	return events, nil
}

// call runs one carrier request through the breaker and retry loop.
func (c *HTTPCarrierClient) call(
	ctx context.Context,
	carrierID string,
	method string,
	path string,
	body any,
) ([]byte, error) {
	baseURL, ok := c.cfg.BaseURLs[carrierID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("carrierId", carrierID)
	}

	brk := c.breakerFor(carrierID)
	if !brk.allow() {
		metrics.CarrierBreakerOpen.WithLabelValues(carrierID).Inc()
		return nil, &ports.CarrierUnavailableError{
			CarrierID: carrierID,
			Cause:     fmt.Errorf("circuit breaker open"),
		}
	}

	backoff := 200 * time.Millisecond
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			brk.fail()
			return nil, &ports.CarrierUnavailableError{CarrierID: carrierID, Cause: ctx.Err()}
		}

		raw, retryable, err := c.doOnce(ctx, method, strings.TrimRight(baseURL, "/")+path, body)
		if err == nil {
			brk.succeed()
			return raw, nil
		}
		lastErr = err

		if !retryable || attempt == c.cfg.MaxRetries {
			break
		}

		sleepFor := backoff + time.Duration(rand.Int63n(int64(backoff)/2+1))
		c.logger.Warn("carrier request retrying",
			"carrier_id", carrierID,
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		select {
		case <-time.After(sleepFor):
		case <-ctx.Done():
			brk.fail()
			return nil, &ports.CarrierUnavailableError{CarrierID: carrierID, Cause: ctx.Err()}
		}
		backoff *= 2
	}

	brk.fail()
	return nil, &ports.CarrierUnavailableError{CarrierID: carrierID, Cause: lastErr}
}

// doOnce performs a single request. The bool reports whether a failure is
// worth retrying: network errors, 429 and 5xx are; other statuses are not.
func (c *HTTPCarrierClient) doOnce(
	ctx context.Context,
	method string,
	url string,
	body any,
) ([]byte, bool, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, true, readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, false, nil
	}

	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return nil, retryable, fmt.Errorf("carrier http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}

func (c *HTTPCarrierClient) breakerFor(carrierID string) *breaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	brk, ok := c.breakers[carrierID]
	if !ok {
		brk = newBreaker(c.cfg.BreakerThreshold, c.cfg.BreakerCooldown, c.now)
		c.breakers[carrierID] = brk
	}
	return brk
}

func addressToWire(a ports.ShipmentAddress) addressWire {
	return addressWire{
		Line1:      a.Line1,
		City:       a.City,
		PostalCode: a.PostalCode,
		Region:     a.Region,
		Country:    a.Country,
	}
}
