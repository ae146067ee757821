package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMovementRoutes(app *fiber.App, db *gorm.DB) {
	movementController := controllers.NewMovementController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/movements",
		middleware.AuthMiddleware,
	)

	api.Get("/", movementController.GetMovements)
	api.Get("/export", movementController.ExportExcel)
}
