package services

import (
	"math"
	"sort"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// RateOption is one ranked shipping offer for a package.
type RateOption struct {
	CarrierID   string
	CarrierName string
	Cost        kernel.Money
	TransitDays int
	Recommended bool
}

// RateShopper is a domain service that filters the carrier registry by
// capability and computes a ranked list of shipping options.
//
// Ranking rules:
//   - carriers that cannot take the weight, or cannot collect COD when a COD
//     amount is set, are excluded;
//   - cost = baseRate + ceil(weightKg) * perKgRate + codSurcharge (when COD);
//   - ascending by cost, ties broken by ascending transit days, then by
//     carrier id, so the result is fully deterministic;
//   - exactly one option is marked recommended: the cheapest with realtime
//     tracking, or the overall cheapest when none track in real time.
//
// An empty result is a valid outcome meaning "no eligible carrier", not an
// error.
type RateShopper struct {
	registry *carrier.Registry
}

// NewRateShopper creates a rate shopper over the given registry.
func NewRateShopper(registry *carrier.Registry) *RateShopper {
	return &RateShopper{registry: registry}
}

// Quote returns the ranked shipping options for a package of weightKg with an
// optional cash-on-delivery amount (zero means no COD).
func (rs *RateShopper) Quote(weightKg float64, codAmount kernel.Money) ([]RateOption, error) {
	if weightKg <= 0 {
		return nil, errs.NewValueIsInvalidError("weightKg")
	}

	billableKg := int64(math.Ceil(weightKg))
	withCOD := !codAmount.IsZero()

	options := make([]RateOption, 0)
	tracksRealtime := make(map[string]bool)
	for _, c := range rs.registry.All() {
		if weightKg > c.MaxWeightKg() {
			continue
		}
		if withCOD && !c.SupportsCOD() {
			continue
		}

		cost := c.BaseRate().Add(c.PerKgRate().MulInt(billableKg))
		if withCOD {
			cost = cost.Add(c.CODSurcharge())
		}

		tracksRealtime[c.ID()] = c.SupportsRealtimeTracking()
		options = append(options, RateOption{
			CarrierID:   c.ID(),
			CarrierName: c.Name(),
			Cost:        cost,
			TransitDays: c.AvgTransitDays(),
		})
	}

	sort.Slice(options, func(i, j int) bool {
		if !options[i].Cost.IsEqual(options[j].Cost) {
			return options[i].Cost.Less(options[j].Cost)
		}
		if options[i].TransitDays != options[j].TransitDays {
			return options[i].TransitDays < options[j].TransitDays
		}
		return options[i].CarrierID < options[j].CarrierID
	})

	markRecommended(options, tracksRealtime)
	return options, nil
}

// markRecommended flags the cheapest option with realtime tracking, falling
// back to the overall cheapest.
func markRecommended(options []RateOption, tracksRealtime map[string]bool) {
	if len(options) == 0 {
		return
	}
	for i := range options {
		if tracksRealtime[options[i].CarrierID] {
			options[i].Recommended = true
			return
		}
	}
	options[0].Recommended = true
}
