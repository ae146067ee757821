package database

import (
	"errors"
	"log"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RunSeeders loads the external master data this pipeline consumes:
// hierarchy warehouses, inventory materials with live stock, finance
// posting rules, and sample sales orders awaiting cost settlement.
func RunSeeders(db *gorm.DB) {
	SeedWarehouses(db)
	SeedPostingRules(db)
	SeedMaterials(db)
	SeedSalesOrders(db)
}

func SeedWarehouses(db *gorm.DB) {
	warehouses := []models.Warehouse{
		{WhsCode: "WH01", WhsName: "Central Warehouse", Path: "/plants/p01/wh01", IsActive: true},
		{WhsCode: "WH02", WhsName: "Spare Parts Store", Path: "/plants/p01/wh02", IsActive: true},
	}

	for _, wh := range warehouses {
		var existing models.Warehouse
		err := db.Where("whs_code = ?", wh.WhsCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&wh).Error; err != nil {
				log.Fatalf("Failed to seed warehouse %s: %v", wh.WhsCode, err)
			}
		}
	}
}

func SeedPostingRules(db *gorm.DB) {
	rules := []models.PostingRule{
		{Code: "INV_LOSS", Name: "Inventory count loss", DebitAccount: "530100", CreditAccount: "140100", CostCenterRequired: false, IsActive: true},
		{Code: "INV_GAIN", Name: "Inventory count gain", DebitAccount: "140100", CreditAccount: "430100", CostCenterRequired: false, IsActive: true},
		{Code: "DEPT_EXP", Name: "Departmental expense", DebitAccount: "610200", CreditAccount: "140100", CostCenterRequired: true, IsActive: true},
		{Code: "COGS", Name: "Cost of goods sold", DebitAccount: "510100", CreditAccount: "140100", CostCenterRequired: false, IsActive: true},
	}

	for _, rule := range rules {
		var existing models.PostingRule
		err := db.Where("code = ?", rule.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&rule).Error; err != nil {
				log.Fatalf("Failed to seed posting rule %s: %v", rule.Code, err)
			}
		}
	}
}

func SeedMaterials(db *gorm.DB) {
	type seedMaterial struct {
		code     string
		name     string
		uom      string
		cost     string
		location string
		qty      string
	}

	seeds := []seedMaterial{
		{"MAT-0001", "Bearing 6204-2RS", "PCS", "5.00", "A-01-01", "120"},
		{"MAT-0002", "V-Belt B42", "PCS", "12.50", "A-01-02", "35"},
		{"MAT-0003", "Hydraulic Oil 46", "LTR", "3.75", "B-02-01", "600"},
		{"MAT-0004", "Gasket Sheet 3mm", "SHT", "22.00", "B-02-02", "14"},
		{"MAT-0005", "Grease EP2", "KG", "8.10", "C-03-01", "80"},
	}

	for _, seed := range seeds {
		var existing models.Material
		err := db.Where("item_code = ?", seed.code).First(&existing).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}

		cost, _ := decimal.NewFromString(seed.cost)
		qty, _ := decimal.NewFromString(seed.qty)

		material := models.Material{
			ItemCode: seed.code,
			ItemName: seed.name,
			Uom:      seed.uom,
			UnitCost: cost,
			IsActive: true,
		}
		if err := db.Create(&material).Error; err != nil {
			log.Fatalf("Failed to seed material %s: %v", seed.code, err)
		}

		stock := models.MaterialStock{
			MaterialID: material.ID,
			WhsCode:    "WH01",
			Location:   seed.location,
			QtyOnHand:  qty,
		}
		if err := db.Create(&stock).Error; err != nil {
			log.Fatalf("Failed to seed stock for %s: %v", seed.code, err)
		}
	}
}

func SeedSalesOrders(db *gorm.DB) {
	var existing models.SalesOrder
	err := db.Where("code = ?", "SO-2025-0001").First(&existing).Error
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	order := models.SalesOrder{
		Code:         "SO-2025-0001",
		CustomerName: "PT Maju Jaya",
		WhsCode:      "WH01",
		Status:       models.OrderOpen,
		Items: []models.SalesOrderItem{
			{ItemCode: "MAT-0001", ItemName: "Bearing 6204-2RS", Uom: "PCS", IssuedQty: decimal.NewFromInt(4), UnitCost: decimal.NewFromFloat(5.00), Status: models.OrderOpen},
			{ItemCode: "MAT-0003", ItemName: "Hydraulic Oil 46", Uom: "LTR", IssuedQty: decimal.NewFromInt(20), UnitCost: decimal.NewFromFloat(3.75), Status: models.OrderOpen},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		log.Fatalf("Failed to seed sales order: %v", err)
	}
}
