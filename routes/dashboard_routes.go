package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, db *gorm.DB) {
	dashboardController := controllers.NewDashboardController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/dashboard",
		middleware.AuthMiddleware,
	)

	api.Get("/stock-take", dashboardController.GetStockTakeOverview)
}
