package queries

import (
	"context"

	"fulfillment/internal/core/domain/services"
)

// GetShippingRatesQueryHandler prices a package against the carrier registry.
// Purely computational, no database access.
type GetShippingRatesQueryHandler struct {
	rateShopper *services.RateShopper
}

// NewGetShippingRatesQueryHandler creates a handler backed by the given rate
// shopper.
func NewGetShippingRatesQueryHandler(rateShopper *services.RateShopper) GetShippingRatesQueryHandler {
	return GetShippingRatesQueryHandler{rateShopper: rateShopper}
}

// Handle returns the ranked shipping options for the queried package. Carriers
// that cannot take the package are left out; an empty slice means no carrier
// can serve it.
func (h GetShippingRatesQueryHandler) Handle(
	_ context.Context,
	query GetShippingRatesQuery,
) ([]GetShippingRatesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	options, err := h.rateShopper.Quote(query.WeightKg(), query.CODAmount())
	if err != nil {
		return nil, err
	}

	rates := make([]GetShippingRatesQueryResponse, 0, len(options))
	for _, option := range options {
		rates = append(rates, GetShippingRatesQueryResponse{
			CarrierID:   option.CarrierID,
			CarrierName: option.CarrierName,
			CostCents:   option.Cost.Cents(),
			TransitDays: option.TransitDays,
			Recommended: option.Recommended,
		})
	}

	return rates, nil
}
