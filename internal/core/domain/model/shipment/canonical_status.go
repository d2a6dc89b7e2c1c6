package shipment

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CanonicalStatus is the carrier-agnostic shipping vocabulary used internally.
// Carrier-specific raw statuses are mapped into these values at ingestion.
type CanonicalStatus int

const (
	// CanonicalUnknown is the invalid zero value.
	CanonicalUnknown CanonicalStatus = iota

	// CanonicalShipped indicates the carrier accepted the package.
	CanonicalShipped

	// CanonicalInTransit indicates the package is moving through the carrier
	// network. Also the conservative fallback for unmapped raw statuses.
	CanonicalInTransit

	// CanonicalOutForDelivery indicates the final delivery leg.
	CanonicalOutForDelivery

	// CanonicalDelivered indicates confirmed delivery.
	CanonicalDelivered

	// CanonicalDeliveryFailed indicates a failed delivery attempt.
	CanonicalDeliveryFailed

	// CanonicalReturned indicates the package is on its way back to the sender.
	CanonicalReturned
)

func getCanonicalStatusStrings() map[CanonicalStatus]string {
	return map[CanonicalStatus]string{
		CanonicalUnknown:        "unknown",
		CanonicalShipped:        "shipped",
		CanonicalInTransit:      "in_transit",
		CanonicalOutForDelivery: "out_for_delivery",
		CanonicalDelivered:      "delivered",
		CanonicalDeliveryFailed: "delivery_failed",
		CanonicalReturned:       "returned",
	}
}

// Validate rejects CanonicalUnknown and out-of-range values.
func (s CanonicalStatus) Validate() error {
	if s == CanonicalUnknown {
		return errs.NewValueIsInvalidErrorWithCause("canonicalStatus",
			fmt.Errorf("%d is not a valid canonical status", int(s)))
	}
	if _, ok := getCanonicalStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("canonicalStatus",
			fmt.Errorf("%d is not a valid canonical status", int(s)))
	}
	return nil
}

// String returns the snake_case name of the status.
func (s CanonicalStatus) String() string {
	if str, ok := getCanonicalStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// OrderStatus maps the canonical shipping status to the order lifecycle status
// it should drive, if any. Delivery failures and returns do not move the order;
// they surface through notifications and metrics instead.
func (s CanonicalStatus) OrderStatus() (order.Status, bool) {
	switch s {
	case CanonicalShipped, CanonicalInTransit:
		return order.Shipped, true
	case CanonicalOutForDelivery:
		return order.OutForDelivery, true
	case CanonicalDelivered:
		return order.Delivered, true
	default:
		return order.Unknown, false
	}
}

// Vocabulary maps carrier-specific raw statuses to canonical statuses,
// per carrier id. Lookups are case-insensitive on the raw status.
type Vocabulary struct {
	byCarrier map[string]map[string]CanonicalStatus
}

// NewVocabulary builds a vocabulary from per-carrier mapping tables. Raw
// status keys are normalized to lower case.
func NewVocabulary(tables map[string]map[string]CanonicalStatus) *Vocabulary {
	byCarrier := make(map[string]map[string]CanonicalStatus, len(tables))
	for carrierID, table := range tables {
		normalized := make(map[string]CanonicalStatus, len(table))
		for raw, canonical := range table {
			normalized[strings.ToLower(raw)] = canonical
		}
		byCarrier[carrierID] = normalized
	}
	return &Vocabulary{byCarrier: byCarrier}
}

// Map resolves a raw carrier status. The second result reports whether the raw
// status had an explicit mapping; unmapped statuses fall back to
// CanonicalInTransit so a noisy carrier vocabulary never halts ingestion.
func (v *Vocabulary) Map(carrierID, rawStatus string) (CanonicalStatus, bool) {
	table, ok := v.byCarrier[carrierID]
	if !ok {
		return CanonicalInTransit, false
	}
	canonical, ok := table[strings.ToLower(strings.TrimSpace(rawStatus))]
	if !ok {
		return CanonicalInTransit, false
	}
	return canonical, true
}

// DefaultVocabulary returns the mapping tables for the carriers the service
// ships with. Raw vocabularies were taken from each carrier's webhook docs.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(map[string]map[string]CanonicalStatus{
		"dhl": {
			"picked_up":        CanonicalShipped,
			"in_transit":       CanonicalInTransit,
			"with_courier":     CanonicalOutForDelivery,
			"delivered":        CanonicalDelivered,
			"delivery_attempt": CanonicalDeliveryFailed,
			"returned":         CanonicalReturned,
		},
		"ups": {
			"origin_scan":        CanonicalShipped,
			"in transit":         CanonicalInTransit,
			"out for delivery":   CanonicalOutForDelivery,
			"delivered":          CanonicalDelivered,
			"exception":          CanonicalDeliveryFailed,
			"returned to sender": CanonicalReturned,
		},
		"fedex": {
			"shipped":          CanonicalShipped,
			"in_transit":       CanonicalInTransit,
			"out_for_delivery": CanonicalOutForDelivery,
			"delivered":        CanonicalDelivered,
			"delivery_failed":  CanonicalDeliveryFailed,
			"returning":        CanonicalReturned,
		},
	})
}
