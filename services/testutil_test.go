package services

import (
	"sync"
	"testing"
	"time"

	"stocktake-app/controllers/idgen"
	"stocktake-app/migration"
	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var idgenOnce sync.Once

// newTestDB opens a fresh in-memory database. A single connection keeps
// concurrent test transactions serialized the way a server-grade store
// would serialize row-locked writes.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	idgenOnce.Do(idgen.Init)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migration.Migrate(db))
	return db
}

func seedWarehouse(t *testing.T, db *gorm.DB, code string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Warehouse{
		WhsCode:  code,
		WhsName:  code + " warehouse",
		Path:     "/plants/p01/" + code,
		IsActive: true,
	}).Error)
}

func seedMaterial(t *testing.T, db *gorm.DB, whsCode, itemCode, location string, qty, cost decimal.Decimal) models.Material {
	t.Helper()

	material := models.Material{
		ItemCode: itemCode,
		ItemName: "Material " + itemCode,
		Uom:      "PCS",
		UnitCost: cost,
		IsActive: true,
	}
	require.NoError(t, db.Create(&material).Error)

	require.NoError(t, db.Create(&models.MaterialStock{
		MaterialID: material.ID,
		WhsCode:    whsCode,
		Location:   location,
		QtyOnHand:  qty,
	}).Error)

	return material
}

func seedRule(t *testing.T, db *gorm.DB, code string, costCenterRequired bool) models.PostingRule {
	t.Helper()

	rule := models.PostingRule{
		Code:               code,
		Name:               "Rule " + code,
		DebitAccount:       "530100",
		CreditAccount:      "140100",
		CostCenterRequired: costCenterRequired,
		IsActive:           true,
	}
	require.NoError(t, db.Create(&rule).Error)
	return rule
}

func seedCounter(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, NewSequenceService(db).EnsureCounter())
}

// newTestSession seeds one warehouse with n materials at the given unit
// cost and creates a FULL session over it.
func newTestSession(t *testing.T, db *gorm.DB, n int, qty, cost decimal.Decimal) *models.CountSession {
	t.Helper()

	seedWarehouse(t, db, "WH01")
	for i := 0; i < n; i++ {
		seedMaterial(t, db, "WH01", itemCode(i), binLabel(i), qty, cost)
	}

	session, err := NewSessionService(db).CreateSession(CreateSessionRequest{
		WhsCode:      "WH01",
		CampaignType: models.CampaignFull,
		Frequency:    "ANNUAL",
		StartDate:    time.Now(),
		EndDate:      time.Now().AddDate(0, 0, 7),
	}, 1)
	require.NoError(t, err)
	return session
}

func itemCode(i int) string {
	return "MAT-" + string(rune('A'+i)) + "001"
}

func binLabel(i int) string {
	return "A-01-0" + string(rune('1'+i))
}
