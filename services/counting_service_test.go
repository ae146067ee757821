package services

import (
	"testing"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCounts_MarksItemsCounted(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 2, decimal.NewFromInt(10), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)

	updated, err := NewCountingService(db).RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.NewFromInt(8), Notes: "two damaged"},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, models.SheetCounted, updated.Status)

	byID := make(map[uint]models.CountSheetItem)
	for _, item := range updated.Items {
		byID[item.ID] = item
	}

	counted := byID[sheet.Items[0].ID]
	assert.Equal(t, models.ItemCounted, counted.Status)
	assert.True(t, counted.Counted)
	assert.True(t, counted.CountedQty.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "two damaged", counted.Notes)

	// The untouched item stays open.
	assert.Equal(t, models.ItemOpen, byID[sheet.Items[1].ID].Status)
}

func TestRecordCounts_ZeroIsAValidCount(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(10), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	// Counting zero means the bin is empty, not that nothing was counted.
	updated, err := NewCountingService(db).RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.Zero},
	}, 1)
	require.NoError(t, err)

	item := updated.Items[0]
	assert.True(t, item.Counted)
	assert.True(t, item.EffectiveCount().IsZero())
}

func TestRecordCounts_NegativeRejected(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(10), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	_, err = NewCountingService(db).RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.NewFromInt(-1)},
	}, 1)
	assert.ErrorIs(t, err, ErrNegativeCount)
}

func TestRecordCounts_ForeignItemRejected(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 3, decimal.NewFromInt(10), decimal.NewFromInt(5))

	service := NewBatchService(db)
	first, err := service.GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)
	second, err := service.GenerateSheet(session.Code, 2, 1)
	require.NoError(t, err)

	_, err = NewCountingService(db).RecordCounts(first.Code, []CountEntry{
		{ItemID: second.Items[0].ID, CountedQty: decimal.NewFromInt(5)},
	}, 1)
	assert.Error(t, err)
}

func TestRecordCounts_PostedItemImmutable(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(100), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	counted := decimal.NewFromInt(92)
	_, err = NewPostingService(db).PostItem(sheet.Code, sheet.Items[0].ID, &counted, 1)
	require.NoError(t, err)

	_, err = NewCountingService(db).RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.NewFromInt(95)},
	}, 1)
	assert.ErrorIs(t, err, ErrAlreadyPosted)
}

func TestRecordCounts_RecountBeforePosting(t *testing.T) {
	db := newTestDB(t)
	session := newTestSession(t, db, 1, decimal.NewFromInt(10), decimal.NewFromInt(5))

	sheet, err := NewBatchService(db).GenerateSheet(session.Code, 1, 1)
	require.NoError(t, err)

	service := NewCountingService(db)
	_, err = service.RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.NewFromInt(8)},
	}, 1)
	require.NoError(t, err)

	updated, err := service.RecordCounts(sheet.Code, []CountEntry{
		{ItemID: sheet.Items[0].ID, CountedQty: decimal.NewFromInt(9)},
	}, 1)
	require.NoError(t, err)

	assert.True(t, updated.Items[0].CountedQty.Equal(decimal.NewFromInt(9)))
}
