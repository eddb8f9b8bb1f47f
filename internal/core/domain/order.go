package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPlaced    = "placed"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type (
	// An Order is immutable once created, except for status
	// transitions which happen outside this core.
	Order struct {
		OrderID   string
		UserID    string
		Lines     []OrderLine
		Status    string
		Total     decimal.Decimal
		CreatedAt time.Time
	}

	// An OrderLine copies the cart line at purchase time.
	// UnitPrice is frozen and never recomputed from the catalog.
	OrderLine struct {
		ProductID string
		Quantity  int
		UnitPrice decimal.Decimal
	}
)

func (l OrderLine) Extension() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderTotal sums the line extensions with exact decimal arithmetic.
func OrderTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Extension())
	}
	return total
}
