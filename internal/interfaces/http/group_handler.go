package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adpopescu/panex-api/internal/application/dto"
	"github.com/adpopescu/panex-api/internal/application/groups"
)

// GroupHandler handles product group requests (protected).
type GroupHandler struct {
	uc *groups.UseCase
}

// NewGroupHandler builds the handler.
func NewGroupHandler(uc *groups.UseCase) *GroupHandler {
	return &GroupHandler{uc: uc}
}

// Save creates or updates a group after validating member price and VAT
// consistency against the catalog.
// POST /api/groups
func (h *GroupHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveProductGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed body"})
	}
	resp, err := h.uc.Save(c.Context(), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// List returns every group in definition order.
// GET /api/groups
func (h *GroupHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(c.Context())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}
