package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Notes       string
}

// TotalPrice is the line subtotal, quantity times unit price.
func (i OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is one version of an order. Mutation never happens in place:
// every change builds a successor with the same ID and the store swaps it in.
type Order struct {
	ID       string
	BuyerID  string
	SellerID string
	Items    []OrderItem

	// TotalAmount is always recomputed from Items, never set directly.
	TotalAmount decimal.Decimal

	Status    OrderStatus
	OrderDate time.Time

	ExpectedDeliveryDate *time.Time
	// ActualDeliveryDate is non-nil exactly while Status == DELIVERED.
	ActualDeliveryDate *time.Time

	DeliveryAddress  string
	PaymentMethod    string
	DeliveryMethod   string
	Notes            string
	OrganicCertified bool
}

// ItemsTotal sums the line subtotals of items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice())
	}
	return total
}

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrValidation    = errors.New("validation error")
)
