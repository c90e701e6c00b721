package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpopescu/panex-api/internal/application/billing"
	"github.com/adpopescu/panex-api/internal/application/dto"
)

// InvoiceHandler handles local invoice generation and billing settings
// (protected).
type InvoiceHandler struct {
	uc *billing.UseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *billing.UseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Generate allocates a number and creates the invoice for a validated order.
// Regenerating returns the stored invoice unchanged.
// POST /api/orders/:id/invoice
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	resp, err := h.uc.GenerateLocalInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByOrder returns the invoice generated for an order.
// GET /api/orders/:id/invoice
func (h *InvoiceHandler) GetByOrder(c *fiber.Ctx) error {
	resp, err := h.uc.GetLocalInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// DownloadPDF renders and streams the invoice PDF.
// GET /api/orders/:id/invoice/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	content, filename, err := h.uc.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

// GetSettings returns the numbering state.
// GET /api/billing/settings
func (h *InvoiceHandler) GetSettings(c *fiber.Ctx) error {
	resp, err := h.uc.GetSettings(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// UpdateSettings overrides the numbering sequence (admin only).
// PUT /api/billing/settings
func (h *InvoiceHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.BillingSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed body"})
	}
	if err := h.uc.UpdateSettings(c.Context(), actorFromCtx(c), in); err != nil {
		return mapDomainError(c, err)
	}
	return h.GetSettings(c)
}
