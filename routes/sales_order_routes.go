package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSalesOrderRoutes(app *fiber.App, db *gorm.DB) {
	orderController := controllers.NewSalesOrderController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/sales-orders",
		middleware.AuthMiddleware,
	)

	api.Get("/", orderController.GetAllOrders)
	api.Get("/:code", orderController.GetOrderDetail)
	api.Post("/:code/settle", orderController.SettleOrder)
}
