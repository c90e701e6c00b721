package entity

import "github.com/shopspring/decimal"

// ProductGroup aggregates interchangeable products into a single invoice line
// under the master product's name and code. Fiscal correctness requires every
// member to share the group's price and VAT rate; that is validated when the
// group is saved, not silently tolerated at export time.
type ProductGroup struct {
	ID                string
	Name              string // master product's description
	MasterProductID   string
	MasterProductCode string
	MemberProductIDs  []string // >= 2, includes the master
	Price             decimal.Decimal
	VATRate           decimal.Decimal
	Position          int // definition order, drives grouped-line ordering on exports
}

// Contains reports whether the product is a member of the group.
func (g *ProductGroup) Contains(productID string) bool {
	for _, id := range g.MemberProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
