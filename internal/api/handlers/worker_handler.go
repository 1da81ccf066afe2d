package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/internal/service"
)

// WorkerHandler serves the unattended pollers: the review queue consumer
// and the external dispatch consumer. Callers authenticate with the
// shared worker token, not a user session.
type WorkerHandler struct {
	rs service.ReviewService
	ds service.DispatchService
}

func NewWorkerHandler(reviewService service.ReviewService, dispatchService service.DispatchService) *WorkerHandler {
	return &WorkerHandler{rs: reviewService, ds: dispatchService}
}

func (h *WorkerHandler) ReviewJobsDue(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	jobs, err := h.rs.ListDue(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *WorkerHandler) ReviewJobsConsume(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	claimed, jobs, err := h.rs.ConsumeDue(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"claimed": claimed, "jobs": jobs})
}

func (h *WorkerHandler) DispatchReady(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id is required",
		})
	}

	resp, err := h.ds.Resolve(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
