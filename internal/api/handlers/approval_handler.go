package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
)

type ApprovalHandler struct {
	s service.ApprovalService
}

func NewApprovalHandler(service service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{s: service}
}

func (h *ApprovalHandler) ListApprovals(c *fiber.Ctx) error {
	userId := GetUserID(c)

	records, err := h.s.List(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"approvals": records})
}

func (h *ApprovalHandler) SetApproval(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.ApprovalSet
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	rec, err := h.s.Set(c.Context(), userId, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rec)
}
