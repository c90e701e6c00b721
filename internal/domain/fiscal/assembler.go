package fiscal

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// InvoiceLine is one rendered line of an invoice document. Weight lines are
// secondary informational lines emitted right after their parent product line
// when the client's display preference asks for them.
type InvoiceLine struct {
	Description string
	Unit        string
	Quantity    decimal.Decimal // 3 decimals
	UnitPrice   decimal.Decimal // 4 decimals
	Value       decimal.Decimal // 2 decimals
	VATRate     decimal.Decimal // percent
	VATAmount   decimal.Decimal // 2 decimals
	IsWeight    bool
}

// InvoiceDocument is the field-level content of one exported invoice.
type InvoiceDocument struct {
	SupplierName    string
	SupplierCIF     string
	SupplierAddress string
	ClientName      string
	ClientCIF       string
	ClientAddress   string
	ClientAccount   string
	Number          string
	Date            string
	Currency        string // always RON
	Lines           []InvoiceLine
	Total           decimal.Decimal
	TotalVAT        decimal.Decimal
	TotalWithVAT    decimal.Decimal
}

// ReceiptDocument is the field-level content of one exported receipt.
type ReceiptDocument struct {
	Date            string
	SequenceCode    string
	TotalWithVAT    decimal.Decimal
	CashAccountCode string
	ClientAccount   string
	InvoiceNumber   string
}

// ProductionRow is one row of the production sheet: one per order line.
type ProductionRow struct {
	Seq         int
	Date        string
	Warehouse   string
	ProductCode string
	Description string
	Lot         int
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Value       decimal.Decimal
}

// groupAccum accumulates the quantity (and weight, when shown) of every item
// that resolves to one configured group.
type groupAccum struct {
	group    *entity.ProductGroup
	quantity decimal.Decimal
	weight   decimal.Decimal
	unit     string
}

// AssembleInvoice builds the invoice content for one order.
//
// Items whose product belongs to a configured group collapse into a single
// synthetic line keyed by the group, using the group's fixed price and VAT and
// the summed quantity. Grouped lines come first, in group-definition order,
// then ungrouped items in their original order. Weight lines follow their
// parent line when the client displays weight and the product (or accumulated
// group weight) is nonzero.
func AssembleInvoice(
	order *entity.Order,
	client *entity.Client,
	company *entity.CompanyConfig,
	products map[string]*entity.Product,
	groups []*entity.ProductGroup,
	number string,
) InvoiceDocument {
	doc := InvoiceDocument{
		SupplierName:    company.Name,
		SupplierCIF:     company.CIF,
		SupplierAddress: company.Address,
		ClientName:      client.Name,
		ClientCIF:       client.CIF,
		ClientAddress:   client.Address,
		ClientAccount:   client.AccountingCode,
		Number:          number,
		Date:            order.Date,
		Currency:        "RON",
	}

	groupByProduct := make(map[string]*entity.ProductGroup)
	for _, g := range groups {
		for _, pid := range g.MemberProductIDs {
			groupByProduct[pid] = g
		}
	}

	accums := make(map[string]*groupAccum)
	var ungrouped []InvoiceLine

	for _, it := range order.Items {
		p := products[it.ProductID]
		if g, ok := groupByProduct[it.ProductID]; ok {
			acc := accums[g.ID]
			if acc == nil {
				acc = &groupAccum{group: g}
				if p != nil {
					acc.unit = p.Unit
				}
				accums[g.ID] = acc
			}
			acc.quantity = acc.quantity.Add(it.Quantity)
			if client.DisplaysWeight && p != nil {
				acc.weight = acc.weight.Add(it.Quantity.Mul(p.WeightKg))
			}
			continue
		}
		ungrouped = append(ungrouped, itemLines(it, p, client.DisplaysWeight)...)
	}

	// Grouped lines first, in definition order.
	ordered := make([]*groupAccum, 0, len(accums))
	for _, acc := range accums {
		ordered = append(ordered, acc)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].group.Position < ordered[j].group.Position
	})
	for _, acc := range ordered {
		g := acc.group
		qty := Qty3(acc.quantity)
		value := Money2(qty.Mul(Price4(g.Price)))
		doc.Lines = append(doc.Lines, InvoiceLine{
			Description: g.Name,
			Unit:        acc.unit,
			Quantity:    qty,
			UnitPrice:   Price4(g.Price),
			Value:       value,
			VATRate:     g.VATRate,
			VATAmount:   VATAmount(value, g.VATRate),
		})
		if client.DisplaysWeight && acc.weight.GreaterThan(decimal.Zero) {
			doc.Lines = append(doc.Lines, weightLine(g.Name, acc.weight))
		}
	}
	doc.Lines = append(doc.Lines, ungrouped...)

	for _, l := range doc.Lines {
		if l.IsWeight {
			continue
		}
		doc.Total = doc.Total.Add(l.Value)
		doc.TotalVAT = doc.TotalVAT.Add(l.VATAmount)
	}
	doc.Total = Money2(doc.Total)
	doc.TotalVAT = Money2(doc.TotalVAT)
	doc.TotalWithVAT = doc.Total.Add(doc.TotalVAT)
	return doc
}

// itemLines renders an ungrouped item, plus its weight line when requested.
func itemLines(it entity.OrderItem, p *entity.Product, showWeight bool) []InvoiceLine {
	desc, unit := it.ProductID, ""
	var vatRate, weightKg decimal.Decimal
	if p != nil {
		desc, unit = p.Description, p.Unit
		vatRate = p.VATRate
		weightKg = p.WeightKg
	}
	qty := Qty3(it.Quantity)
	price := Price4(it.UnitPrice)
	value := Money2(qty.Mul(price))
	lines := []InvoiceLine{{
		Description: desc,
		Unit:        unit,
		Quantity:    qty,
		UnitPrice:   price,
		Value:       value,
		VATRate:     vatRate,
		VATAmount:   VATAmount(value, vatRate),
	}}
	if showWeight && weightKg.GreaterThan(decimal.Zero) {
		lines = append(lines, weightLine(desc, it.Quantity.Mul(weightKg)))
	}
	return lines
}

func weightLine(desc string, weightKg decimal.Decimal) InvoiceLine {
	return InvoiceLine{
		Description: desc + " (greutate)",
		Unit:        "kg",
		Quantity:    Qty3(weightKg),
		IsWeight:    true,
	}
}

// AssembleReceipt builds the receipt content for one order.
func AssembleReceipt(
	order *entity.Order,
	client *entity.Client,
	company *entity.CompanyConfig,
	sequenceCode, invoiceNumber string,
) ReceiptDocument {
	return ReceiptDocument{
		Date:            order.Date,
		SequenceCode:    sequenceCode,
		TotalWithVAT:    Money2(order.TotalWithVAT),
		CashAccountCode: company.CashAccountCode,
		ClientAccount:   client.AccountingCode,
		InvoiceNumber:   invoiceNumber,
	}
}

// AssembleProduction builds the production sheet: one row per order line, all
// stamped with the day's LOT number and the company warehouse ("gestiune").
func AssembleProduction(
	orders []*entity.Order,
	company *entity.CompanyConfig,
	products map[string]*entity.Product,
	lot int,
	date string,
) []ProductionRow {
	var rows []ProductionRow
	seq := 1
	for _, o := range orders {
		for _, it := range o.Items {
			code, desc, unit := it.ProductID, it.ProductID, ""
			if p := products[it.ProductID]; p != nil {
				code, desc, unit = p.Code, p.Description, p.Unit
			}
			qty := Qty3(it.Quantity)
			price := Price4(it.UnitPrice)
			rows = append(rows, ProductionRow{
				Seq:         seq,
				Date:        date,
				Warehouse:   company.WarehouseName,
				ProductCode: code,
				Description: desc,
				Lot:         lot,
				Unit:        unit,
				Quantity:    qty,
				UnitPrice:   price,
				Value:       Money2(qty.Mul(price)),
			})
			seq++
		}
	}
	return rows
}
