package migration

import (
	"stocktake-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Warehouse{},
		&models.Material{},
		&models.MaterialStock{},
		&models.CountSession{},
		&models.CountSheet{},
		&models.CountSheetItem{},
		&models.StockMovement{},
		&models.PostingRule{},
		&models.JournalCounter{},
		&models.JournalEntry{},
		&models.JournalLine{},
		&models.SalesOrder{},
		&models.SalesOrderItem{},
	)
}
