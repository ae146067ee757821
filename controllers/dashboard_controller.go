package controllers

import (
	"stocktake-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(DB *gorm.DB) *DashboardController {
	return &DashboardController{DB: DB}
}

func (c *DashboardController) GetStockTakeOverview(ctx *fiber.Ctx) error {
	repo := repositories.NewSessionRepository(c.DB)
	overview, err := repo.GetSessionOverview()
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    overview,
	})
}
