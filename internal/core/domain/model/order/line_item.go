package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// LineItem is a value object describing one purchased product line.
// Immutable once constructed.
type LineItem struct {
	sku       string
	name      string
	unitPrice kernel.Money
	quantity  int
}

// NewLineItem creates a validated line item. SKU and name are required and
// quantity must be positive.
func NewLineItem(sku, name string, unitPrice kernel.Money, quantity int) (LineItem, error) {
	if sku == "" {
		return LineItem{}, errs.NewValueIsRequiredError("sku")
	}
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return LineItem{sku: sku, name: name, unitPrice: unitPrice, quantity: quantity}, nil
}

// SKU returns the product identifier.
func (li LineItem) SKU() string {
	return li.sku
}

// Name returns the display name of the product.
func (li LineItem) Name() string {
	return li.name
}

// UnitPrice returns the price of a single unit.
func (li LineItem) UnitPrice() kernel.Money {
	return li.unitPrice
}

// Quantity returns the number of units purchased.
func (li LineItem) Quantity() int {
	return li.quantity
}

// Subtotal returns unit price times quantity.
func (li LineItem) Subtotal() kernel.Money {
	return li.unitPrice.MulInt(int64(li.quantity))
}
