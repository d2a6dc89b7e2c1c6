package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetShippingRatesQueryIsNotConstructed = errors.New(
		"GetShippingRatesQuery must be created via NewGetShippingRatesQuery constructor",
	)
)

// GetShippingRatesQuery asks for the ranked shipping options of a package.
// A zero COD amount means the package does not need cash on delivery.
type GetShippingRatesQuery struct {
	weightKg  float64
	codAmount kernel.Money

	guard guard.ConstructorGuard
}

// NewGetShippingRatesQuery creates a rate query for a package of weightKg.
func NewGetShippingRatesQuery(weightKg float64, codAmount kernel.Money) (GetShippingRatesQuery, error) {
	if weightKg <= 0 {
		return GetShippingRatesQuery{}, errs.NewValueIsInvalidError("weightKg")
	}

	return GetShippingRatesQuery{
		weightKg:  weightKg,
		codAmount: codAmount,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// WeightKg returns the package weight in kilograms.
func (q GetShippingRatesQuery) WeightKg() float64 {
	return q.weightKg
}

// CODAmount returns the requested cash-on-delivery amount.
func (q GetShippingRatesQuery) CODAmount() kernel.Money {
	return q.codAmount
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetShippingRatesQueryIsNotConstructed if validation fails.
func (q GetShippingRatesQuery) Validate() error {
	return q.guard.Validate(ErrGetShippingRatesQueryIsNotConstructed)
}

// GetShippingRatesQueryResponse represents one priced shipping option.
// Recommended marks the option the rate shopper would pick.
type GetShippingRatesQueryResponse struct {
	CarrierID   string
	CarrierName string
	CostCents   int64
	TransitDays int
	Recommended bool
}
