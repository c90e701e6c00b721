package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// OrderItemPayload one order line in requests and responses.
type OrderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaveOrderRequest creates or updates the order for (client, date).
// Prices are resolved by the caller against the catalog and frozen here.
type SaveOrderRequest struct {
	Date        string             `json:"date"` // ISO "2006-01-02"
	ClientID    string             `json:"client_id"`
	AgentID     string             `json:"agent_id"`
	PaymentType string             `json:"payment_type"` // immediate | credit
	DueDate     string             `json:"due_date"`     // required iff credit
	Validated   bool               `json:"validated"`
	Items       []OrderItemPayload `json:"items"`
}

// OrderResponse full order view.
type OrderResponse struct {
	ID              string             `json:"id"`
	Date            string             `json:"date"`
	ClientID        string             `json:"client_id"`
	AgentID         string             `json:"agent_id"`
	PaymentType     string             `json:"payment_type"`
	DueDate         string             `json:"due_date,omitempty"`
	Items           []OrderItemPayload `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	TotalVAT        decimal.Decimal    `json:"total_vat"`
	TotalWithVAT    decimal.Decimal    `json:"total_with_vat"`
	InvoiceExported bool               `json:"invoice_exported"`
	ReceiptExported bool               `json:"receipt_exported"`
	Validated       bool               `json:"validated"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewOrderResponse maps the entity.
func NewOrderResponse(o *entity.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:              o.ID,
		Date:            o.Date,
		ClientID:        o.ClientID,
		AgentID:         o.AgentID,
		PaymentType:     o.PaymentType,
		DueDate:         o.DueDate,
		Total:           o.Total,
		TotalVAT:        o.TotalVAT,
		TotalWithVAT:    o.TotalWithVAT,
		InvoiceExported: o.InvoiceExported,
		ReceiptExported: o.ReceiptExported,
		Validated:       o.Validated,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemPayload{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return resp
}
