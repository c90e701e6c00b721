package entity

// BillingSettings is the singleton local-invoice numbering sequence.
// InvoiceNextNumber is handed to at most one invoice per allocation and
// advanced in the same transaction, so no two invoices can share a number.
type BillingSettings struct {
	InvoiceSeries        string
	InvoiceNextNumber    int // >= 1
	InvoiceNumberPadding int
}
