// Package orderrepo persists order aggregates with GORM. Line items live in a
// child table; they are written once at placement and never updated, matching
// the aggregate's immutable item list.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row for an order aggregate.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;index"`
	Status          int        `gorm:"index"`
	Version         int64      `gorm:"not null"`
	ShippingAddress AddressDTO `gorm:"embedded;embeddedPrefix:shipping_"`
	BillingAddress  AddressDTO `gorm:"embedded;embeddedPrefix:billing_"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []ItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is an address snapshot embedded in the orders table.
type AddressDTO struct {
	Line1      string
	City       string
	PostalCode string
	Region     string
	Country    string
}

// ItemDTO is one purchased line in the order_items child table.
type ItemDTO struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	SKU            string
	Name           string
	UnitPriceCents int64
	Quantity       int
}

// TableName overrides GORM's default naming to use "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			SKU:            item.SKU(),
			Name:           item.Name(),
			UnitPriceCents: item.UnitPrice().Cents(),
			Quantity:       item.Quantity(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		UserID:          aggregate.UserID().Bytes(),
		Status:          int(aggregate.Status()),
		Version:         aggregate.Version(),
		ShippingAddress: addressFromDomain(aggregate.ShippingAddress()),
		BillingAddress:  addressFromDomain(aggregate.BillingAddress()),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		Items:           items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		price, priceErr := kernel.NewMoney(itemDTO.UnitPriceCents)
		if priceErr != nil {
			return nil, priceErr
		}
		item, itemErr := order.NewLineItem(itemDTO.SKU, itemDTO.Name, price, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	shipping, err := addressToDomain(dto.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billing, err := addressToDomain(dto.BillingAddress)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, userID, order.Status(dto.Status), items,
		shipping, billing, dto.Version, dto.CreatedAt, dto.UpdatedAt)
}

func addressFromDomain(a order.Address) AddressDTO {
	return AddressDTO{
		Line1:      a.Line1(),
		City:       a.City(),
		PostalCode: a.PostalCode(),
		Region:     a.Region(),
		Country:    a.Country(),
	}
}

func addressToDomain(dto AddressDTO) (order.Address, error) {
	return order.NewAddress(dto.Line1, dto.City, dto.PostalCode, dto.Region, dto.Country)
}
