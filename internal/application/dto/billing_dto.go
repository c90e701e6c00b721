package dto

import (
	"github.com/shopspring/decimal"

	"github.com/adpopescu/panex-api/internal/domain/entity"
)

// BillingSettingsRequest administrative update of the numbering sequence.
// Never renumbers existing invoices.
type BillingSettingsRequest struct {
	InvoiceSeries        string `json:"invoice_series"`
	InvoiceNextNumber    int    `json:"invoice_next_number"`
	InvoiceNumberPadding int    `json:"invoice_number_padding"`
}

// BillingSettingsResponse current numbering state.
type BillingSettingsResponse struct {
	InvoiceSeries        string `json:"invoice_series"`
	InvoiceNextNumber    int    `json:"invoice_next_number"`
	InvoiceNumberPadding int    `json:"invoice_number_padding"`
	NextInvoiceCode      string `json:"next_invoice_code"`
}

// LocalInvoiceLinePayload one snapshot line.
type LocalInvoiceLinePayload struct {
	ProductID   string          `json:"product_id"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Value       decimal.Decimal `json:"value"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
}

// LocalInvoiceResponse full invoice view.
type LocalInvoiceResponse struct {
	ID            string                    `json:"id"`
	OrderID       string                    `json:"order_id"`
	InvoiceNumber int                       `json:"invoice_number"`
	InvoiceCode   string                    `json:"invoice_code"`
	DocumentDate  string                    `json:"document_date"`
	ClientName    string                    `json:"client_name"`
	ClientCIF     string                    `json:"client_cif"`
	Total         decimal.Decimal           `json:"total"`
	TotalVAT      decimal.Decimal           `json:"total_vat"`
	TotalWithVAT  decimal.Decimal           `json:"total_with_vat"`
	Status        string                    `json:"status"`
	PDFGenerated  bool                      `json:"pdf_generated"`
	Lines         []LocalInvoiceLinePayload `json:"lines"`
}

// NewLocalInvoiceResponse maps the entity.
func NewLocalInvoiceResponse(inv *entity.LocalInvoice) *LocalInvoiceResponse {
	resp := &LocalInvoiceResponse{
		ID:            inv.ID,
		OrderID:       inv.OrderID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceCode:   inv.InvoiceCode,
		DocumentDate:  inv.DocumentDate,
		ClientName:    inv.ClientName,
		ClientCIF:     inv.ClientCIF,
		Total:         inv.Total,
		TotalVAT:      inv.TotalVAT,
		TotalWithVAT:  inv.TotalWithVAT,
		Status:        inv.Status,
		PDFGenerated:  inv.PDFGenerated,
	}
	for _, l := range inv.Lines {
		resp.Lines = append(resp.Lines, LocalInvoiceLinePayload{
			ProductID:   l.ProductID,
			Description: l.Description,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			Value:       l.Value,
			VATAmount:   l.VATAmount,
		})
	}
	return resp
}
