// Package pricing computes checkout totals from cart lines. It is pure: no
// I/O, deterministic given its inputs.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/SamuelCev/KicksBackend-sub000/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// UnsupportedCountryError is returned when the destination country has no
// entry in the tax/shipping table.
type UnsupportedCountryError struct {
	Country string
}

func (e *UnsupportedCountryError) Error() string {
	return fmt.Sprintf("unsupported destination country %q", e.Country)
}

// InvalidCouponError is returned for a coupon code absent from the registry.
// An omitted coupon is valid and means no discount.
type InvalidCouponError struct {
	Code string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("unknown coupon code %q", e.Code)
}

// CountryRate holds the tax rate and flat shipping fee for a destination.
type CountryRate struct {
	Country  string          `json:"pais"`
	TaxRate  decimal.Decimal `json:"impuesto"`
	Shipping decimal.Decimal `json:"envio"`
}

var countryRates = map[string]CountryRate{
	"mexico": {Country: "mexico", TaxRate: decimal.NewFromFloat(0.16), Shipping: decimal.NewFromInt(120)},
	"usa":    {Country: "usa", TaxRate: decimal.NewFromFloat(0.07), Shipping: decimal.NewFromInt(180)},
	"españa": {Country: "españa", TaxRate: decimal.NewFromFloat(0.21), Shipping: decimal.NewFromInt(150)},
}

// Coupon discounts are fractions taken off the post-tax-and-shipping total.
// The source system applies coupons after tax and shipping, so that behavior
// is kept. TODO: confirm with the product owner whether the discount should
// instead apply to the subtotal.
var coupons = map[string]decimal.Decimal{
	"DESCUENTO10": decimal.NewFromFloat(0.10),
}

// Result carries the computed totals. All monetary values are rounded to two
// fraction digits; intermediate computation keeps full precision.
type Result struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingAmount decimal.Decimal
	CouponCode     string
	Total          decimal.Decimal
}

// ComputeTotals prices a cart for a destination country and optional coupon.
// Subtotal is the sum of effective unit price times quantity per line; the
// coupon multiplier applies to the rounded subtotal+tax+shipping total.
func ComputeTotals(lines []domain.CartLine, country, couponCode string) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	rate, ok := countryRates[country]
	if !ok {
		return nil, &UnsupportedCountryError{Country: country}
	}

	multiplier := decimal.NewFromInt(1)
	if couponCode != "" {
		discount, known := coupons[couponCode]
		if !known {
			return nil, &InvalidCouponError{Code: couponCode}
		}
		multiplier = multiplier.Sub(discount)
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := line.EffectiveUnitPrice().Mul(decimal.NewFromInt32(line.Quantity))
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(rate.TaxRate)
	preCoupon := subtotal.Add(tax).Add(rate.Shipping).Round(2)
	total := preCoupon.Mul(multiplier).Round(2)

	return &Result{
		Subtotal:       subtotal.Round(2),
		TaxAmount:      tax.Round(2),
		ShippingAmount: rate.Shipping.Round(2),
		CouponCode:     couponCode,
		Total:          total,
	}, nil
}

// CouponDiscount looks up a coupon code in the registry.
func CouponDiscount(code string) (decimal.Decimal, bool) {
	discount, ok := coupons[code]
	return discount, ok
}

// Countries returns the country/tax/shipping table for the public endpoint.
func Countries() []CountryRate {
	rates := make([]CountryRate, 0, len(countryRates))
	for _, name := range []string{"mexico", "usa", "españa"} {
		rates = append(rates, countryRates[name])
	}
	return rates
}

// IsSupportedCountry reports whether the destination has a rate entry.
func IsSupportedCountry(country string) bool {
	_, ok := countryRates[country]
	return ok
}
