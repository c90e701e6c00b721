package entity

// Client is the read-only customer view this engine consumes.
type Client struct {
	ID             string
	Name           string
	CIF            string
	Address        string
	PriceZone      int
	DisplaysWeight bool   // when true, invoices carry a secondary weight line per product
	AccountingCode string // client analytic account in the downstream accounting software
}
