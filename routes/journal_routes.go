package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupJournalRoutes(app *fiber.App, db *gorm.DB) {
	journalController := controllers.NewJournalController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/journal-entries",
		middleware.AuthMiddleware,
	)

	api.Get("/", journalController.GetAllEntries)
}
