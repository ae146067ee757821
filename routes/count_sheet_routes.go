package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCountSheetRoutes(app *fiber.App, db *gorm.DB) {
	sheetController := controllers.NewCountSheetController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/sheets",
		middleware.AuthMiddleware,
	)

	api.Get("/", sheetController.GetAllSheets)
	api.Get("/:code", sheetController.GetSheetDetail)
	api.Get("/:code/export", sheetController.ExportExcel)
	api.Post("/:code/counts", sheetController.RecordCounts)
	api.Post("/:code/items/:id/post", sheetController.PostItem)
	api.Post("/:code/settle", sheetController.SettleSheet)
}
