package services

import (
	"testing"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSheet_PartitionsScopeInOrder(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 5, decimal.NewFromInt(10), decimal.NewFromInt(5))
	scope := session.Scope()

	service := NewBatchService(db)

	first, err := service.GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.Equal(t, scope[0], first.Items[0].MaterialID)
	assert.Equal(t, scope[1], first.Items[1].MaterialID)

	second, err := service.GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, scope[2], second.Items[0].MaterialID)
	assert.Equal(t, scope[3], second.Items[1].MaterialID)

	third, err := service.GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Equal(t, scope[4], third.Items[0].MaterialID)

	_, err = service.GenerateSheet(session.Code, 2, 1)
	assert.ErrorIs(t, err, ErrFullyBatched)

	// No material ID appears in two sheets of the same session, and the
	// union of all sheets stays inside the scope.
	var items []models.CountSheetItem
	require.NoError(t, db.Find(&items).Error)
	seen := make(map[uint]int)
	inScope := make(map[uint]bool)
	for _, id := range scope {
		inScope[id] = true
	}
	for _, item := range items {
		seen[item.MaterialID]++
		assert.True(t, inScope[item.MaterialID])
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "material %d batched more than once", id)
	}
}

func TestGenerateSheet_CycleCoversWholeScope(t *testing.T) {
	db := newTestDB(t)
	seedWarehouse(t, db, "WH01")
	for i := 0; i < 5; i++ {
		seedMaterial(t, db, "WH01", itemCode(i), binLabel(i), decimal.NewFromInt(10), decimal.NewFromInt(5))
	}

	session, err := NewSessionService(db).CreateSession(CreateSessionRequest{
		WhsCode:      "WH01",
		CampaignType: models.CampaignCycle,
		Frequency:    "MONTHLY",
	}, 1)
	require.NoError(t, err)

	service := NewBatchService(db)
	seen := make(map[uint]int)
	for {
		sheet, err := service.GenerateSheet(session.Code, 2, 1)
		if err != nil {
			assert.ErrorIs(t, err, ErrFullyBatched)
			break
		}
		for _, item := range sheet.Items {
			seen[item.MaterialID]++
		}
	}

	// Shuffling changes the order, never the partition.
	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "material %d batched more than once", id)
	}
}

func TestGenerateSheet_FreezesSystemQty(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)
	require.Len(t, sheet.Items, 1)
	assert.True(t, sheet.Items[0].SystemQty.Equal(decimal.NewFromInt(100)))

	// Master data drifting after generation must not touch the snapshot.
	require.NoError(t, db.Model(&models.MaterialStock{}).
		Where("material_id = ?", sheet.Items[0].MaterialID).
		Update("qty_on_hand", decimal.NewFromInt(40)).Error)

	var item models.CountSheetItem
	require.NoError(t, db.First(&item, sheet.Items[0].ID).Error)
	assert.True(t, item.SystemQty.Equal(decimal.NewFromInt(100)))
}

func TestGenerateSheet_ChunksBulkLookups(t *testing.T) {
	db := newTestDB(t)
	seedWarehouse(t, db, "WH01")
	for i := 0; i < 25; i++ {
		material := models.Material{
			ItemCode: "BULK-" + string(rune('A'+i/10)) + string(rune('0'+i%10)),
			ItemName: "Bulk material",
			Uom:      "PCS",
			UnitCost: decimal.NewFromInt(2),
			IsActive: true,
		}
		require.NoError(t, db.Create(&material).Error)
		require.NoError(t, db.Create(&models.MaterialStock{
			MaterialID: material.ID,
			WhsCode:    "WH01",
			Location:   "Z-01-01",
			QtyOnHand:  decimal.NewFromInt(int64(i)),
		}).Error)
	}

	session, err := NewSessionService(db).CreateSession(CreateSessionRequest{
		WhsCode:      "WH01",
		CampaignType: models.CampaignFull,
	}, 1)
	require.NoError(t, err)

	// Page size far below the batch forces multiple lookup pages.
	service := NewBatchService(db)
	service.pageSize = 4

	sheet, err := service.GenerateSheet(session.Code, 25, 1)
	require.NoError(t, err)
	assert.Len(t, sheet.Items, 25)
}

func TestGenerateSheet_LookupIncomplete(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 2, decimal.NewFromInt(10), decimal.NewFromInt(5))
	scope := session.Scope()

	// A scope member losing its stock row between scoping and batching
	// must fail the whole generation, not produce a short sheet.
	require.NoError(t, db.Unscoped().
		Where("material_id = ?", scope[1]).
		Delete(&models.MaterialStock{}).Error)

	_, err := NewBatchService(db).GenerateSheet(session.Code, 5, 1)
	require.ErrorIs(t, err, ErrLookupIncomplete)

	var lookup *LookupIncompleteError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, []uint{scope[1]}, lookup.Missing)
}

func TestGenerateSheet_RequiresActiveSession(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 2, decimal.NewFromInt(10), decimal.NewFromInt(5))

	_, err := NewSessionService(db).Pause(session.Code, 1)
	require.NoError(t, err)

	_, err = NewBatchService(db).GenerateSheet(session.Code, 2, 1)
	assert.ErrorIs(t, err, ErrSessionNotActive)
}
