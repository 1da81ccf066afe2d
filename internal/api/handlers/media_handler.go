package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
)

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	userId := GetUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	asset, err := h.s.Upload(c.Context(), userId, file, c.FormValue("label"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(asset)
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	userId := GetUserID(c)

	assets, err := h.s.List(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"assets": assets})
}
