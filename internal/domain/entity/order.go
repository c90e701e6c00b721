package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment terms for an order.
const (
	PaymentImmediate = "immediate"
	PaymentCredit    = "credit" // requires DueDate
)

// ExportKind selects which export flag an operation touches.
type ExportKind string

const (
	ExportInvoice ExportKind = "invoice"
	ExportReceipt ExportKind = "receipt"
)

// Order is one client's sales order for one production day.
// There is at most one order per (ClientID, Date).
//
// Totals are always recomputed from the items server-side, never trusted from
// the caller. Unit prices are frozen at save time: later catalog price changes
// do not touch existing orders.
type Order struct {
	ID              string
	Date            string // calendar day, ISO "2006-01-02"
	ClientID        string
	AgentID         string
	PaymentType     string // PaymentImmediate | PaymentCredit
	DueDate         string // ISO date, required iff PaymentCredit
	Items           []OrderItem
	Total           decimal.Decimal
	TotalVAT        decimal.Decimal
	TotalWithVAT    decimal.Decimal
	InvoiceExported bool // once true the items are frozen and delete is blocked
	ReceiptExported bool // secondary export; does not block delete
	Validated       bool // gate before a local invoice can be generated
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is one line of an order. UnitPrice is the price snapshot captured
// when the line was saved.
type OrderItem struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Frozen reports whether the order's items may no longer be changed.
func (o *Order) Frozen() bool {
	return o.InvoiceExported
}

// SameItems reports whether the given lines are identical to the order's
// current lines (product, quantity, price, in order). Used to let metadata-only
// saves through on an invoice-exported order under admin override.
func (o *Order) SameItems(items []OrderItem) bool {
	if len(items) != len(o.Items) {
		return false
	}
	for i, it := range items {
		cur := o.Items[i]
		if it.ProductID != cur.ProductID ||
			!it.Quantity.Equal(cur.Quantity) ||
			!it.UnitPrice.Equal(cur.UnitPrice) {
			return false
		}
	}
	return true
}
