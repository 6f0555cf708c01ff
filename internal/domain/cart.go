package domain

import "github.com/shopspring/decimal"

// CartLine is a single product+quantity entry read from the live cart.
// UnitPrice and DiscountFraction are snapshots taken at read time; lines are
// transient and never persisted as part of the order.
type CartLine struct {
	ProductID        int64           `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Category         string          `json:"category"`
	Quantity         int32           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountFraction decimal.Decimal `json:"discount_fraction"`
	HasDiscount      bool            `json:"has_discount"`
}

// EffectiveUnitPrice applies the product discount when present.
func (l CartLine) EffectiveUnitPrice() decimal.Decimal {
	if !l.HasDiscount {
		return l.UnitPrice
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(1).Sub(l.DiscountFraction))
}
