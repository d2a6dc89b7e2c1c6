package order

import "fulfillment/internal/pkg/errs"

// Address is an immutable snapshot of a shipping or billing address, captured
// at order placement. Later edits to a user's address book never touch an
// existing order.
type Address struct {
	line1      string
	city       string
	postalCode string
	region     string
	country    string
}

// NewAddress creates a validated address snapshot. Line1, city and country are
// required; postal code and region are free-form because their shape varies by
// country.
func NewAddress(line1, city, postalCode, region, country string) (Address, error) {
	if line1 == "" {
		return Address{}, errs.NewValueIsRequiredError("line1")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if country == "" {
		return Address{}, errs.NewValueIsRequiredError("country")
	}
	return Address{
		line1:      line1,
		city:       city,
		postalCode: postalCode,
		region:     region,
		country:    country,
	}, nil
}

// Line1 returns the street line.
func (a Address) Line1() string { return a.line1 }

// City returns the city.
func (a Address) City() string { return a.city }

// PostalCode returns the postal code.
func (a Address) PostalCode() string { return a.postalCode }

// Region returns the province or state.
func (a Address) Region() string { return a.region }

// Country returns the country.
func (a Address) Country() string { return a.country }
