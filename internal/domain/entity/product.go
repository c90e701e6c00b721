package entity

import "github.com/shopspring/decimal"

// Product is the read-only catalog view this engine consumes. Prices are per
// zone; the client's PriceZone selects which one applies.
type Product struct {
	ID          string
	Code        string
	Description string
	Unit        string // unit of measure, e.g. "buc", "kg"
	WeightKg    decimal.Decimal
	VATRate     decimal.Decimal // percent, e.g. 11
	PriceZone1  decimal.Decimal
	PriceZone2  decimal.Decimal
	PriceZone3  decimal.Decimal
}

// PriceForZone returns the product's price in the given zone (1-based).
// Unknown zones fall back to zone 1.
func (p *Product) PriceForZone(zone int) decimal.Decimal {
	switch zone {
	case 2:
		return p.PriceZone2
	case 3:
		return p.PriceZone3
	default:
		return p.PriceZone1
	}
}
