package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
)

type BookingHandler struct {
	s service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{s: service}
}

func (h *BookingHandler) ClaimSlug(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.SlugClaim
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	link, err := h.s.ClaimSlug(c.Context(), userId, req.Slug)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(link)
}

func (h *BookingHandler) BookingInfo(c *fiber.Ctx) error {
	userId := GetUserID(c)

	link, err := h.s.Info(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(link)
}

// Redirect is the public booking page: /b/:slug 302s to the owner's
// configured booking URL.
func (h *BookingHandler) Redirect(c *fiber.Ctx) error {
	slug := c.Params("slug")

	target, err := h.s.ResolveSlug(c.Context(), slug)
	if err != nil {
		return respondError(c, err)
	}

	return c.Redirect(target, fiber.StatusFound)
}
