package routes

import (
	"stocktake-app/config"
	"stocktake-app/controllers"
	"stocktake-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupSessionRoutes(app *fiber.App, db *gorm.DB) {
	sessionController := controllers.NewSessionController(db)
	sheetController := controllers.NewCountSheetController(db)
	api := app.Group(
		config.MAIN_ROUTES+"/sessions",
		middleware.AuthMiddleware,
	)

	api.Get("/", sessionController.GetAllSessions)
	api.Post("/", sessionController.CreateSession)
	api.Get("/:code", sessionController.GetSessionDetail)
	api.Get("/:code/progress", sessionController.GetProgress)
	api.Put("/:code/pause", sessionController.PauseSession)
	api.Put("/:code/resume", sessionController.ResumeSession)
	api.Post("/:code/close", sessionController.CloseSession)
	api.Post("/:code/sheets", sheetController.GenerateSheet)
}
