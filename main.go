package main

import (
	"fmt"

	"stocktake-app/config"
	"stocktake-app/controllers/idgen"
	"stocktake-app/database"
	"stocktake-app/migration"
	"stocktake-app/routes"
	"stocktake-app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := database.GetDBConnection()
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		logrus.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	if err := services.NewSequenceService(db).EnsureCounter(); err != nil {
		logrus.Fatalf("Failed to init journal counter: %v", err)
	}

	config.SetupCORS(app)

	routes.SetupSessionRoutes(app, db)
	routes.SetupCountSheetRoutes(app, db)
	routes.SetupSalesOrderRoutes(app, db)
	routes.SetupJournalRoutes(app, db)
	routes.SetupMovementRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server berjalan di port " + port)

	if err := app.Listen(":" + port); err != nil {
		logrus.Fatal(err)
	}
}
