package controllers

import (
	"fmt"

	"stocktake-app/models"
	"stocktake-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type CountSheetController struct {
	DB *gorm.DB
}

func NewCountSheetController(DB *gorm.DB) *CountSheetController {
	return &CountSheetController{DB: DB}
}

func (c *CountSheetController) GenerateSheet(ctx *fiber.Ctx) error {
	var req struct {
		BatchSize int `json:"batch_size" validate:"required,min=1"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	service := services.NewBatchService(c.DB)
	sheet, err := service.GenerateSheet(ctx.Params("code"), req.BatchSize, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Count sheet generated successfully",
		"data":    sheet,
	})
}

func (c *CountSheetController) GetAllSheets(ctx *fiber.Ctx) error {
	var sheets []models.CountSheet
	if err := c.DB.Order("id desc").Find(&sheets).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    sheets,
	})
}

func (c *CountSheetController) GetSheetDetail(ctx *fiber.Ctx) error {
	var sheet models.CountSheet
	if err := c.DB.Preload("Items").First(&sheet, "code = ?", ctx.Params("code")).Error; err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"success": true, "data": sheet})
}

func (c *CountSheetController) RecordCounts(ctx *fiber.Ctx) error {
	var req struct {
		Entries []services.CountEntry `json:"entries" validate:"required,min=1,dive"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	service := services.NewCountingService(c.DB)
	sheet, err := service.RecordCounts(ctx.Params("code"), req.Entries, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Counts recorded successfully",
		"data":    sheet,
	})
}

func (c *CountSheetController) PostItem(ctx *fiber.Ctx) error {
	itemID, err := ctx.ParamsInt("id")
	if err != nil || itemID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid item id",
		})
	}

	var req struct {
		ConfirmedCount *decimal.Decimal `json:"confirmed_count"`
	}
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	service := services.NewPostingService(c.DB)
	item, err := service.PostItem(ctx.Params("code"), uint(itemID), req.ConfirmedCount, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Item posted successfully",
		"data":    item,
	})
}

func (c *CountSheetController) SettleSheet(ctx *fiber.Ctx) error {
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
	entries, err := service.SettleSheet(ctx.Params("code"), req.Allocations, currentUserID(ctx))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"success": true,
		"message": "Sheet settled successfully",
		"data":    fiber.Map{"journal_entries": entries},
	})
}

// ExportExcel writes the sheet's variance report as an xlsx download.
func (c *CountSheetController) ExportExcel(ctx *fiber.Ctx) error {
	var sheet models.CountSheet
	if err := c.DB.Preload("Items").First(&sheet, "code = ?", ctx.Params("code")).Error; err != nil {
		return respondError(ctx, err)
	}

	f := excelize.NewFile()
	tab := "Sheet1"

	f.SetCellValue(tab, "A1", "Item Code")
	f.SetCellValue(tab, "B1", "Item Name")
	f.SetCellValue(tab, "C1", "Location")
	f.SetCellValue(tab, "D1", "Uom")
	f.SetCellValue(tab, "E1", "System Qty")
	f.SetCellValue(tab, "F1", "Counted Qty")
	f.SetCellValue(tab, "G1", "Variance")
	f.SetCellValue(tab, "H1", "Unit Cost")
	f.SetCellValue(tab, "I1", "Variance Value")
	f.SetCellValue(tab, "J1", "Status")

	for i, item := range sheet.Items {
		row := i + 2
		f.SetCellValue(tab, fmt.Sprintf("A%d", row), item.ItemCode)
		f.SetCellValue(tab, fmt.Sprintf("B%d", row), item.ItemName)
		f.SetCellValue(tab, fmt.Sprintf("C%d", row), item.Location)
		f.SetCellValue(tab, fmt.Sprintf("D%d", row), item.Uom)
		f.SetCellValue(tab, fmt.Sprintf("E%d", row), item.SystemQty.InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("F%d", row), item.EffectiveCount().InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("G%d", row), item.Variance().InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("H%d", row), item.UnitCost.InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("I%d", row), item.VarianceValue().InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("J%d", row), item.Status)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, sheet.Code))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Send(buf.Bytes())
}
