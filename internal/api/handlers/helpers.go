package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/flowpilotuk-hash/flowpilot/pkg/apperror"
)

func GetUserID(c *fiber.Ctx) int64 {
	userID, _ := strconv.Atoi(c.Locals("user_id").(string))
	return int64(userID)
}

// respondError maps typed application errors onto their HTTP status; any
// other error is surfaced verbatim as a 500, matching the store-error
// pass-through policy.
func respondError(c *fiber.Ctx, err error) error {
	if coded, ok := err.(apperror.Coded); ok {
		return c.Status(coded.StatusCode()).JSON(fiber.Map{
			"error": coded.Error(),
			"code":  coded.ErrCode(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
