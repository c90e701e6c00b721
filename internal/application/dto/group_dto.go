package dto

import (
	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// SaveProductGroupRequest creates or updates a product group. Price and VAT
// are not taken from the request: they are resolved and validated against the
// member products' catalog data.
type SaveProductGroupRequest struct {
	ID               string   `json:"id"`
	MasterProductID  string   `json:"master_product_id"`
	MemberProductIDs []string `json:"member_product_ids"`
	Position         int      `json:"position"`
}

// ProductGroupResponse full group view.
type ProductGroupResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	MasterProductID   string          `json:"master_product_id"`
	MasterProductCode string          `json:"master_product_code"`
	MemberProductIDs  []string        `json:"member_product_ids"`
	Price             decimal.Decimal `json:"price"`
	VATRate           decimal.Decimal `json:"vat_rate"`
	Position          int             `json:"position"`
}

// NewProductGroupResponse maps the entity.
func NewProductGroupResponse(g *entity.ProductGroup) *ProductGroupResponse {
	return &ProductGroupResponse{
		ID:                g.ID,
		Name:              g.Name,
		MasterProductID:   g.MasterProductID,
		MasterProductCode: g.MasterProductCode,
		MemberProductIDs:  g.MemberProductIDs,
		Price:             g.Price,
		VATRate:           g.VATRate,
		Position:          g.Position,
	}
}
