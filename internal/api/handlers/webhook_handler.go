package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
)

type WebhookHandler struct {
	s service.ReviewService
}

func NewWebhookHandler(service service.ReviewService) *WebhookHandler {
	return &WebhookHandler{s: service}
}

func (h *WebhookHandler) Appointment(c *fiber.Ctx) error {
	slug := c.Params("slug")

	result, err := h.s.IngestAppointment(c.Context(), slug, c.Body())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
