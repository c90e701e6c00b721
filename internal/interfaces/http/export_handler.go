package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpopescu/panex-api/internal/application/export"
)

// ExportHandler handles file exports and day-status requests (protected).
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler builds the handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// ExportInvoices renders the invoice file for a date.
// POST /api/exports/:date/invoices
func (h *ExportHandler) ExportInvoices(c *fiber.Ctx) error {
	res, err := h.uc.ExportInvoices(c.Context(), actorFromCtx(c), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return c.Send(res.Content)
}

// ExportReceipts renders the receipt file for a date.
// POST /api/exports/:date/receipts
func (h *ExportHandler) ExportReceipts(c *fiber.Ctx) error {
	res, err := h.uc.ExportReceipts(c.Context(), actorFromCtx(c), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return c.Send(res.Content)
}

// ExportProduction renders the production sheet and closes the day.
// POST /api/exports/:date/production
func (h *ExportHandler) ExportProduction(c *fiber.Ctx) error {
	res, err := h.uc.ExportProduction(c.Context(), actorFromCtx(c), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.FileName+`"`)
	return c.Send(res.Content)
}

// GetDay returns the day state for a date, open by default.
// GET /api/days/:date
func (h *ExportHandler) GetDay(c *fiber.Ctx) error {
	res, err := h.uc.GetDay(c.Context(), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}

// ReopenDay clears the closed flag for a date (admin only).
// POST /api/days/:date/reopen
func (h *ExportHandler) ReopenDay(c *fiber.Ctx) error {
	res, err := h.uc.ReopenDay(c.Context(), actorFromCtx(c), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}

// GetCounters returns the per-date counters without advancing them.
// GET /api/exports/:date/counters
func (h *ExportHandler) GetCounters(c *fiber.Ctx) error {
	res, err := h.uc.PeekCounters(c.Context(), c.Params("date"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(res)
}
