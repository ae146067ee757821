package controllers

import (
	"stocktake-app/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type JournalController struct {
	DB *gorm.DB
}

func NewJournalController(DB *gorm.DB) *JournalController {
	return &JournalController{DB: DB}
}

func (c *JournalController) GetAllEntries(ctx *fiber.Ctx) error {
	repo := repositories.NewJournalRepository(c.DB)
	entries, err := repo.ListEntries(ctx.Query("ref_type"), ctx.Query("ref_code"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}
