package controllers

import (
	"errors"

	"stocktake-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// respondError maps pipeline errors onto HTTP statuses and keeps enough
// detail in the payload for the caller to correct and retry.
func respondError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConcurrencyConflict):
		status = fiber.StatusConflict
	case services.IsClientError(err), errors.Is(err, services.ErrLookupIncomplete):
		status = fiber.StatusBadRequest
	}

	payload := fiber.Map{
		"success": false,
		"message": err.Error(),
	}

	var imbalance *services.AllocationImbalanceError
	if errors.As(err, &imbalance) {
		payload["target"] = imbalance.Target
		payload["allocated"] = imbalance.Allocated
		payload["remainder"] = imbalance.Remainder
	}

	var lookup *services.LookupIncompleteError
	if errors.As(err, &lookup) {
		payload["missing_ids"] = lookup.Missing
	}

	return ctx.Status(status).JSON(payload)
}

func currentUserID(ctx *fiber.Ctx) int {
	if id, ok := ctx.Locals("userID").(float64); ok {
		return int(id)
	}
	return 0
}
