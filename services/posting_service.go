package services

import (
	"errors"
	"fmt"

	"stocktake-app/config"
	"stocktake-app/controllers/idgen"
	"stocktake-app/models"
	"stocktake-app/types"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostingService converts an item's variance into an absolute inventory
// update plus an immutable movement record. Posting is single-shot per
// item: the status flip happens in the same conditional update, so a
// concurrent re-post loses and is rejected.
type PostingService struct {
	db *gorm.DB
}

func NewPostingService(db *gorm.DB) *PostingService {
	return &PostingService{db}
}

// PostItem applies the confirmed count for one sheet item. A nil
// confirmedCount falls back to the recorded count, or to the frozen system
// quantity when nothing was counted (zero variance).
func (s *PostingService) PostItem(sheetCode string, itemID uint, confirmedCount *decimal.Decimal, by int) (*models.CountSheetItem, error) {
	if confirmedCount != nil && confirmedCount.IsNegative() {
		return nil, fmt.Errorf("%w: got %s", ErrNegativeCount, confirmedCount)
	}

	retries := config.TxMaxRetries
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		item, err := s.postOnce(sheetCode, itemID, confirmedCount, by)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *PostingService) postOnce(sheetCode string, itemID uint, confirmedCount *decimal.Decimal, by int) (*models.CountSheetItem, error) {
	var sheet models.CountSheet
	if err := s.db.First(&sheet, "code = ?", sheetCode).Error; err != nil {
		return nil, err
	}

	var item models.CountSheetItem
	if err := s.db.First(&item, "id = ? AND count_sheet_id = ?", itemID, sheet.ID).Error; err != nil {
		return nil, err
	}

	if item.Status == models.ItemPosted || item.Status == models.ItemSettled {
		return nil, fmt.Errorf("%w: item %d on sheet %s", ErrAlreadyPosted, item.ID, sheet.Code)
	}

	count := item.EffectiveCount()
	if confirmedCount != nil {
		count = *confirmedCount
	}

	// Variance against the quantity frozen at sheet generation, not the
	// live stock: the sheet records what we expected to find.
	variance := count.Sub(item.SystemQty)
	value := variance.Mul(item.UnitCost)
	autoSettle := value.Abs().LessThan(epsilon)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var stock models.MaterialStock
		if err := tx.First(&stock, "material_id = ? AND whs_code = ?", item.MaterialID, sheet.WhsCode).Error; err != nil {
			return err
		}

		// The count is the source of truth: overwrite, never increment.
		res := tx.Model(&models.MaterialStock{}).
			Where("id = ? AND version = ?", stock.ID, stock.Version).
			Updates(map[string]interface{}{
				"qty_on_hand": count,
				"version":     stock.Version + 1,
				"updated_by":  by,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		movement := models.StockMovement{
			ID:         types.SnowflakeID(idgen.GenerateID()),
			Kind:       models.MovementAdjustment,
			WhsCode:    sheet.WhsCode,
			MaterialID: item.MaterialID,
			ItemCode:   item.ItemCode,
			Qty:        variance,
			Value:      value,
			RefType:    models.RefTypeCountSheet,
			RefCode:    sheet.Code,
			CreatedBy:  by,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"counted_qty": count,
			"counted":     true,
			"posted_qty":  variance,
			"status":      models.ItemPosted,
			"updated_by":  by,
		}
		if autoSettle {
			// No financial impact to allocate: settle on the spot,
			// skipping the allocator entirely.
			updates["status"] = models.ItemSettled
			updates["settled_qty"] = variance
		}

		res = tx.Model(&models.CountSheetItem{}).
			Where("id = ? AND status NOT IN ?", item.ID, []string{models.ItemPosted, models.ItemSettled}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: item %d on sheet %s", ErrAlreadyPosted, item.ID, sheet.Code)
		}

		return rollupSheetStatus(tx, sheet.ID, by)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sheet":    sheet.Code,
		"item":     item.ID,
		"variance": variance.String(),
		"value":    value.StringFixed(2),
	}).Info("item posted")

	var posted models.CountSheetItem
	if err := s.db.First(&posted, item.ID).Error; err != nil {
		return nil, err
	}
	return &posted, nil
}

// rollupSheetStatus recomputes the parent sheet status from its items:
// SETTLED only when every item is settled, POSTED when everything is at
// least posted, PARTIALLY_POSTED when some are.
func rollupSheetStatus(tx *gorm.DB, sheetID uint, by int) error {
	var items []models.CountSheetItem
	if err := tx.Where("count_sheet_id = ?", sheetID).Find(&items).Error; err != nil {
		return err
	}

	allSettled := true
	allPosted := true
	anyPosted := false
	for _, it := range items {
		switch it.Status {
		case models.ItemSettled:
			anyPosted = true
		case models.ItemPosted:
			allSettled = false
			anyPosted = true
		default:
			allSettled = false
			allPosted = false
		}
	}

	var status string
	switch {
	case allSettled:
		status = models.SheetSettled
	case allPosted:
		status = models.SheetPosted
	case anyPosted:
		status = models.SheetPartiallyPosted
	default:
		return nil
	}

	return tx.Model(&models.CountSheet{}).
		Where("id = ?", sheetID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": by,
		}).Error
}
