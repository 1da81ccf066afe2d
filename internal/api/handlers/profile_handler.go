package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
)

type ProfileHandler struct {
	s service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{s: service}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userId := GetUserID(c)

	profile, err := h.s.GetProfile(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	profile, err := h.s.UpdateProfile(c.Context(), userId, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(profile)
}
