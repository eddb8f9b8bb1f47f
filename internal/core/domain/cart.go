package domain

import "github.com/shopspring/decimal"

// A CartLine is one (user, product) pairing pending checkout.
// UnitPrice is snapshotted at add time and is not revalued
// when the catalog price changes.
type CartLine struct {
	UserID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Extension returns UnitPrice multiplied by Quantity.
func (l CartLine) Extension() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums the line extensions with exact decimal arithmetic.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Extension())
	}
	return total
}
