package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
)

type DispatchHandler struct {
	s service.DispatchService
}

func NewDispatchHandler(service service.DispatchService) *DispatchHandler {
	return &DispatchHandler{s: service}
}

func (h *DispatchHandler) ListFlags(c *fiber.Ctx) error {
	userId := GetUserID(c)

	flags, err := h.s.List(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"dispatch": flags})
}

func (h *DispatchHandler) SetFlag(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.DispatchSet
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	flag, err := h.s.Set(c.Context(), userId, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(flag)
}

func (h *DispatchHandler) DispatchReady(c *fiber.Ctx) error {
	userId := GetUserID(c)

	resp, err := h.s.Resolve(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
