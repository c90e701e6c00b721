package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/application/orders"
)

// OrderHandler handles sales order requests (protected).
type OrderHandler struct {
	uc *orders.UseCase
}

// NewOrderHandler builds the handler.
func NewOrderHandler(uc *orders.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Save creates or updates the order for (client, date).
// POST /api/orders
func (h *OrderHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed body"})
	}
	resp, err := h.uc.Save(c.Context(), actorFromCtx(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetByID loads one order.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	resp, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// ListByDate returns every order of a date.
// GET /api/orders?date=YYYY-MM-DD
func (h *OrderHandler) ListByDate(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date query parameter required"})
	}
	resp, err := h.uc.ListByDate(c.Context(), date)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// Delete removes an order, subject to export and day-status gating.
// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id required"})
	}
	if err := h.uc.Delete(c.Context(), actorFromCtx(c), id); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
