package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// OrderTotals is the server-side recomputation result for an order.
type OrderTotals struct {
	Total        decimal.Decimal
	TotalVAT     decimal.Decimal
	TotalWithVAT decimal.Decimal
}

// ComputeOrderTotals derives the order totals from its items and the catalog
// VAT rates. Line values are rounded to money precision before summing, so
// the stored totals match what the documents will show.
func ComputeOrderTotals(items []entity.OrderItem, products map[string]*entity.Product) OrderTotals {
	var t OrderTotals
	for _, it := range items {
		value := Money2(Qty3(it.Quantity).Mul(Price4(it.UnitPrice)))
		t.Total = t.Total.Add(value)
		if p, ok := products[it.ProductID]; ok {
			t.TotalVAT = t.TotalVAT.Add(VATAmount(value, p.VATRate))
		}
	}
	t.Total = Money2(t.Total)
	t.TotalVAT = Money2(t.TotalVAT)
	t.TotalWithVAT = t.Total.Add(t.TotalVAT)
	return t
}
