// Package fiscal holds the pure computation core: rounding rules, order
// totals, product-group aggregation and the field-level assembly of invoice,
// receipt and production documents. Everything here is side-effect free;
// rendering to XML/CSV/PDF is a thin formatting step in infrastructure.
package fiscal

import "github.com/shopspring/decimal"

// Fiscal precision rules. They affect totals, so they are applied in exactly
// one place and used everywhere.
//
//	money       2 decimals
//	quantities  3 decimals
//	unit prices 4 decimals
func Money2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
func Qty3(d decimal.Decimal) decimal.Decimal   { return d.Round(3) }
func Price4(d decimal.Decimal) decimal.Decimal { return d.Round(4) }

// priceEpsilon is the tolerance for price/VAT equality across group members.
var priceEpsilon = decimal.NewFromFloat(0.001)

// WithinEpsilon reports whether a and b differ by no more than 0.001.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(priceEpsilon)
}

// VATAmount computes the VAT for a 2-decimal value at a percent rate.
func VATAmount(value, ratePercent decimal.Decimal) decimal.Decimal {
	return Money2(value.Mul(ratePercent).Div(decimal.NewFromInt(100)))
}
