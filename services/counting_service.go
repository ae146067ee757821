package services

import (
	"fmt"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CountingService captures counted quantities against a sheet's items.
// Whether the counter gets to see the system quantity ("blind count") is a
// presentation concern; this layer records whatever was counted.
type CountingService struct {
	db *gorm.DB
}

func NewCountingService(db *gorm.DB) *CountingService {
	return &CountingService{db}
}

type CountEntry struct {
	ItemID     uint            `json:"item_id" validate:"required"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Notes      string          `json:"notes"`
}

// RecordCounts writes counted quantities for the given items. Items already
// posted are immutable; an item never counted keeps a zero variance via the
// system-quantity fallback at posting time.
func (s *CountingService) RecordCounts(sheetCode string, entries []CountEntry, by int) (*models.CountSheet, error) {
	for _, entry := range entries {
		if entry.CountedQty.IsNegative() {
			return nil, fmt.Errorf("%w: item %d got %s", ErrNegativeCount, entry.ItemID, entry.CountedQty)
		}
	}

	var sheet models.CountSheet
	if err := s.db.Preload("Items").First(&sheet, "code = ?", sheetCode).Error; err != nil {
		return nil, err
	}

	byItemID := make(map[uint]*models.CountSheetItem, len(sheet.Items))
	for i := range sheet.Items {
		byItemID[sheet.Items[i].ID] = &sheet.Items[i]
	}

	for _, entry := range entries {
		item, ok := byItemID[entry.ItemID]
		if !ok {
			return nil, fmt.Errorf("item %d does not belong to sheet %s", entry.ItemID, sheetCode)
		}
		if item.Status == models.ItemPosted || item.Status == models.ItemSettled {
			return nil, fmt.Errorf("%w: item %d", ErrAlreadyPosted, entry.ItemID)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			item := byItemID[entry.ItemID]
			res := tx.Model(&models.CountSheetItem{}).
				Where("id = ?", item.ID).
				Updates(map[string]interface{}{
					"counted_qty": entry.CountedQty,
					"counted":     true,
					"notes":       entry.Notes,
					"status":      models.ItemCounted,
					"updated_by":  by,
				})
			if res.Error != nil {
				return res.Error
			}
		}

		if sheet.Status == models.SheetCreated {
			return tx.Model(&models.CountSheet{}).
				Where("id = ?", sheet.ID).
				Updates(map[string]interface{}{
					"status":     models.SheetCounted,
					"updated_by": by,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").First(&sheet, sheet.ID).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}
