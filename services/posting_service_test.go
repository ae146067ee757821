package services

import (
	"testing"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostItem_AppliesVariance(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)
	item := sheet.Items[0]

	counted := decimal.NewFromInt(92)
	posted, err := NewPostingService(db).PostItem(sheet.Code, item.ID, &counted, 1)
	require.NoError(t, err)

	assert.Equal(t, models.ItemPosted, posted.Status)
	assert.True(t, posted.PostedQty.Equal(decimal.NewFromInt(-8)))
	assert.True(t, posted.CountedQty.Equal(decimal.NewFromInt(92)))

	// Live stock is overwritten with the count, not adjusted by a delta.
	var stock models.MaterialStock
	require.NoError(t, db.First(&stock, "material_id = ?", item.MaterialID).Error)
	assert.True(t, stock.QtyOnHand.Equal(decimal.NewFromInt(92)))

	var movement models.StockMovement
	require.NoError(t, db.First(&movement, "ref_code = ?", sheet.Code).Error)
	assert.Equal(t, models.MovementAdjustment, movement.Kind)
	assert.True(t, movement.Qty.Equal(decimal.NewFromInt(-8)))
	assert.True(t, movement.Value.Equal(decimal.NewFromInt(-40)))

	var reloaded models.CountSheet
	require.NoError(t, db.First(&reloaded, sheet.ID).Error)
	assert.Equal(t, models.SheetPosted, reloaded.Status)
}

func TestPostItem_RepostRejected(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)
	item := sheet.Items[0]

	counted := decimal.NewFromInt(92)
	service := NewPostingService(db)
	_, err = service.PostItem(sheet.Code, item.ID, &counted, 1)
	require.NoError(t, err)

	_, err = service.PostItem(sheet.Code, item.ID, &counted, 1)
	assert.ErrorIs(t, err, ErrAlreadyPosted)

	// Exactly one movement despite the retry.
	var count int64
	require.NoError(t, db.Model(&models.StockMovement{}).
		Where("ref_code = ?", sheet.Code).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostItem_NegativeCountRejected(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	counted := decimal.NewFromInt(-3)
	_, err = NewPostingService(db).PostItem(sheet.Code, sheet.Items[0].ID, &counted, 1)
	assert.ErrorIs(t, err, ErrNegativeCount)

	// Nothing was applied.
	var item models.CountSheetItem
	require.NoError(t, db.First(&item, sheet.Items[0].ID).Error)
	assert.Equal(t, models.ItemOpen, item.Status)
}

func TestPostItem_ZeroValueAutoSettles(t *testing.T) {
	db := newTestDB(t)
	// Variance of -8 at zero unit cost has no financial impact.
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.Zero)

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	counted := decimal.NewFromInt(92)
	posted, err := NewPostingService(db).PostItem(sheet.Code, sheet.Items[0].ID, &counted, 1)
	require.NoError(t, err)

	assert.Equal(t, models.ItemSettled, posted.Status)
	assert.True(t, posted.SettledQty.Equal(decimal.NewFromInt(-8)))

	// No journal entries on the zero-value path.
	var entries int64
	require.NoError(t, db.Model(&models.JournalEntry{}).Count(&entries).Error)
	assert.EqualValues(t, 0, entries)

	var reloaded models.CountSheet
	require.NoError(t, db.First(&reloaded, sheet.ID).Error)
	assert.Equal(t, models.SheetSettled, reloaded.Status)
}

func TestPostItem_UncountedDefaultsToSystemQty(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	// No count recorded, no confirmed count supplied: zero variance,
	// which auto-settles.
	posted, err := NewPostingService(db).PostItem(sheet.Code, sheet.Items[0].ID, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, models.ItemSettled, posted.Status)
	assert.True(t, posted.PostedQty.IsZero())

	var stock models.MaterialStock
	require.NoError(t, db.First(&stock, "material_id = ?", sheet.Items[0].MaterialID).Error)
	assert.True(t, stock.QtyOnHand.Equal(decimal.NewFromInt(100)))
}

func TestPostItem_PartialRollup(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 2, decimal.NewFromInt(10), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)

	counted := decimal.NewFromInt(8)
	_, err = NewPostingService(db).PostItem(sheet.Code, sheet.Items[0].ID, &counted, 1)
	require.NoError(t, err)

	var reloaded models.CountSheet
	require.NoError(t, db.First(&reloaded, sheet.ID).Error)
	assert.Equal(t, models.SheetPartiallyPosted, reloaded.Status)
}
