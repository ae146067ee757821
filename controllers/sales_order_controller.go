package controllers

import (
	"stocktake-app/models"
	"stocktake-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SalesOrderController struct {
	DB *gorm.DB
}

func NewSalesOrderController(DB *gorm.DB) *SalesOrderController {
	return &SalesOrderController{DB: DB}
}

func (c *SalesOrderController) GetAllOrders(ctx *fiber.Ctx) error {
	var orders []models.SalesOrder
	if err := c.DB.Order("id desc").Find(&orders).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    orders,
	})
}

func (c *SalesOrderController) GetOrderDetail(ctx *fiber.Ctx) error {
	var order models.SalesOrder
	if err := c.DB.Preload("Items").First(&order, "code = ?", ctx.Params("code")).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": order})
}

// SettleOrder allocates the order's issued material cost through the same
// engine that settles stock-take variances.
func (c *SalesOrderController) SettleOrder(ctx *fiber.Ctx) error {
	var req struct {
		Allocations []services.AllocationRow `json:"allocations" validate:"dive"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	service := services.NewSettlementService(c.DB)
	entries, err := service.SettleSalesOrder(ctx.Params("code"), req.Allocations, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Sales order settled successfully",
		"data":    fiber.Map{"journal_entries": entries},
	})
}
