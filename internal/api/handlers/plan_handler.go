package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
	"github.com/flowpilotuk-hash/flowpilot/internal/transfer"
)

type PlanHandler struct {
	s service.PlanService
	g service.PlanGeneratorService
}

func NewPlanHandler(planService service.PlanService, generator service.PlanGeneratorService) *PlanHandler {
	return &PlanHandler{s: planService, g: generator}
}

func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	userId := GetUserID(c)

	rec, err := h.g.Generate(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rec)
}

func (h *PlanHandler) LatestPlan(c *fiber.Ctx) error {
	userId := GetUserID(c)

	rec, err := h.s.LatestPlan(c.Context(), userId)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rec)
}

func (h *PlanHandler) SavePlan(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.PlanSave
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	rec, err := h.s.SavePlan(c.Context(), userId, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(rec)
}
