package entity

// DocumentType selects one of the per-date export counters.
type DocumentType string

const (
	DocInvoice    DocumentType = "invoice"
	DocReceipt    DocumentType = "receipt"
	DocProduction DocumentType = "production"
)

// ExportCounter holds the three per-date file-export sequences. Each counter
// is strictly non-decreasing and advances once per export batch, not once per
// order. Distinct from the local invoice numbering sequence.
type ExportCounter struct {
	Date            string // ISO "2006-01-02"
	InvoiceCount    int
	ReceiptCount    int
	ProductionCount int
}

// Count returns the counter for the given document type.
func (c *ExportCounter) Count(t DocumentType) int {
	switch t {
	case DocInvoice:
		return c.InvoiceCount
	case DocReceipt:
		return c.ReceiptCount
	case DocProduction:
		return c.ProductionCount
	}
	return 0
}
