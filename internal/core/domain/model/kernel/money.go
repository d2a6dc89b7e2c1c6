package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Money is a value object holding an amount in minor units (cents). Monetary
// values in the domain (line-item prices, order totals, shipping rates,
// surcharges) never use floating point.
//
// Money is immutable: arithmetic returns a new value.
type Money struct {
	cents int64
}

// NewMoney creates a Money value from an amount in cents. Negative amounts are
// rejected; the domain has no concept of negative prices.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// Zero returns a zero Money value.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// MulInt returns the Money value multiplied by a non-negative integer factor.
func (m Money) MulInt(factor int64) Money {
	return Money{cents: m.cents * factor}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Less reports whether m is strictly smaller than other. Used for rate ranking.
func (m Money) Less(other Money) bool {
	return m.cents < other.cents
}

// IsEqual reports whether two Money values hold the same amount.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount as a decimal with two fraction digits.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
