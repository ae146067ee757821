package controllers

import (
	"fmt"

	"stocktake-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type MovementController struct {
	DB *gorm.DB
}

func NewMovementController(DB *gorm.DB) *MovementController {
	return &MovementController{DB: DB}
}

func (c *MovementController) GetMovements(ctx *fiber.Ctx) error {
	repo := repositories.NewMovementRepository(c.DB)
	movements, err := repo.ListMovements(ctx.Query("whs_code"), ctx.Query("ref_code"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"movements": movements},
	})
}

// ExportExcel generates the movement audit trail as an xlsx download.
func (c *MovementController) ExportExcel(ctx *fiber.Ctx) error {
	repo := repositories.NewMovementRepository(c.DB)
	movements, err := repo.ListMovements(ctx.Query("whs_code"), ctx.Query("ref_code"))
	if err != nil {
		return respondError(ctx, err)
	}

	f := excelize.NewFile()
	tab := "Sheet1"

	f.SetCellValue(tab, "A1", "Whs Code")
	f.SetCellValue(tab, "B1", "Item Code")
	f.SetCellValue(tab, "C1", "Kind")
	f.SetCellValue(tab, "D1", "Qty")
	f.SetCellValue(tab, "E1", "Value")
	f.SetCellValue(tab, "F1", "Ref Type")
	f.SetCellValue(tab, "G1", "Ref Code")
	f.SetCellValue(tab, "H1", "Date")

	for i, m := range movements {
		row := i + 2
		f.SetCellValue(tab, fmt.Sprintf("A%d", row), m.WhsCode)
		f.SetCellValue(tab, fmt.Sprintf("B%d", row), m.ItemCode)
		f.SetCellValue(tab, fmt.Sprintf("C%d", row), m.Kind)
		f.SetCellValue(tab, fmt.Sprintf("D%d", row), m.Qty.InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("E%d", row), m.Value.InexactFloat64())
		f.SetCellValue(tab, fmt.Sprintf("F%d", row), m.RefType)
		f.SetCellValue(tab, fmt.Sprintf("G%d", row), m.RefCode)
		f.SetCellValue(tab, fmt.Sprintf("H%d", row), m.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="stock_movements.xlsx"`)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Send(buf.Bytes())
}
