package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Local invoice statuses.
const (
	InvoiceStatusIssued = "issued"
)

// LocalInvoice is a persisted invoice record generated on demand from a
// validated order. At most one per order; regenerating returns the stored
// number and code unchanged. Client and line data are snapshots taken at
// generation time.
type LocalInvoice struct {
	ID            string
	OrderID       string
	InvoiceNumber int
	InvoiceCode   string // series + zero-padded number, e.g. "FAC-000028"
	DocumentDate  string // ISO date
	ClientName    string
	ClientCIF     string
	ClientAddress string
	Total         decimal.Decimal
	TotalVAT      decimal.Decimal
	TotalWithVAT  decimal.Decimal
	Status        string
	PDFGenerated  bool // flipped by the detached PDF task, best effort
	Lines         []LocalInvoiceLine
	CreatedAt     time.Time
}

// LocalInvoiceLine is one snapshot line of a local invoice.
type LocalInvoiceLine struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
	Value       decimal.Decimal
	VATAmount   decimal.Decimal
}
