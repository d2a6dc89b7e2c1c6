// Package carrier contains the static carrier capability catalog. The registry
// is configured once at startup and read concurrently without synchronization;
// nothing mutates it after construction.
package carrier

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Carrier describes one shipping carrier's capabilities and pricing. Immutable
// once constructed.
type Carrier struct {
	id                       string
	name                     string
	maxWeightKg              float64
	baseRate                 kernel.Money
	perKgRate                kernel.Money
	codSurcharge             kernel.Money
	avgTransitDays           int
	supportsCOD              bool
	supportsRealtimeTracking bool
}

// NewCarrier creates a validated carrier entry.
func NewCarrier(
	id string,
	name string,
	maxWeightKg float64,
	baseRate kernel.Money,
	perKgRate kernel.Money,
	codSurcharge kernel.Money,
	avgTransitDays int,
	supportsCOD bool,
	supportsRealtimeTracking bool,
) (Carrier, error) {
	if id == "" {
		return Carrier{}, errs.NewValueIsRequiredError("carrierId")
	}
	if maxWeightKg <= 0 {
		return Carrier{}, errs.NewValueIsInvalidErrorWithCause("maxWeightKg",
			fmt.Errorf("%v is not greater than 0", maxWeightKg))
	}
	if avgTransitDays <= 0 {
		return Carrier{}, errs.NewValueIsInvalidErrorWithCause("avgTransitDays",
			fmt.Errorf("%d is not greater than 0", avgTransitDays))
	}

	return Carrier{
		id:                       id,
		name:                     name,
		maxWeightKg:              maxWeightKg,
		baseRate:                 baseRate,
		perKgRate:                perKgRate,
		codSurcharge:             codSurcharge,
		avgTransitDays:           avgTransitDays,
		supportsCOD:              supportsCOD,
		supportsRealtimeTracking: supportsRealtimeTracking,
	}, nil
}

// ID returns the carrier identifier.
func (c Carrier) ID() string { return c.id }

// Name returns the display name.
func (c Carrier) Name() string { return c.name }

// MaxWeightKg returns the heaviest package the carrier accepts.
func (c Carrier) MaxWeightKg() float64 { return c.maxWeightKg }

// BaseRate returns the flat component of the shipping price.
func (c Carrier) BaseRate() kernel.Money { return c.baseRate }

// PerKgRate returns the per-kilogram component of the shipping price.
func (c Carrier) PerKgRate() kernel.Money { return c.perKgRate }

// CODSurcharge returns the extra charged for cash-on-delivery shipments.
func (c Carrier) CODSurcharge() kernel.Money { return c.codSurcharge }

// AvgTransitDays returns the carrier's average door-to-door transit time.
func (c Carrier) AvgTransitDays() int { return c.avgTransitDays }

// SupportsCOD reports whether the carrier collects cash on delivery.
func (c Carrier) SupportsCOD() bool { return c.supportsCOD }

// SupportsRealtimeTracking reports whether the carrier pushes live tracking
// events rather than only answering polls.
func (c Carrier) SupportsRealtimeTracking() bool { return c.supportsRealtimeTracking }
