package services

import (
	"errors"
	"fmt"
	"time"

	"stocktake-app/config"
	"stocktake-app/models"
	"stocktake-app/utils"

	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

// BatchService carves the unprocessed portion of a session's scope into a
// new count sheet. Sheet creation and the grown processed set commit as one
// transaction guarded by the session's version column, so two generators
// racing on the same session cannot double-allocate materials: the loser
// retries against the already-grown processed set.
type BatchService struct {
	db       *gorm.DB
	pageSize int
}

func NewBatchService(db *gorm.DB) *BatchService {
	pageSize := config.LookupPageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &BatchService{db: db, pageSize: pageSize}
}

func (s *BatchService) GenerateSheet(sessionCode string, batchSize int, by int) (*models.CountSheet, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero, got %d", batchSize)
	}

	retries := config.TxMaxRetries
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		sheet, err := s.generateOnce(sessionCode, batchSize, by)
		if err == nil {
			return sheet, nil
		}
		if !errors.Is(err, ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *BatchService) generateOnce(sessionCode string, batchSize int, by int) (*models.CountSheet, error) {
	var session models.CountSession
	if err := s.db.First(&session, "code = ?", sessionCode).Error; err != nil {
		return nil, err
	}

	if session.Status != models.SessionActive {
		return nil, fmt.Errorf("%w: session %s is %s", ErrSessionNotActive, session.Code, session.Status)
	}

	available := session.Remaining()
	if len(available) == 0 {
		return nil, ErrFullyBatched
	}

	// CYCLE campaigns sample unpredictably across the whole remaining
	// scope; FULL and ADHOC walk it in order.
	if session.CampaignType == models.CampaignCycle {
		shuffled := make([]uint, len(available))
		copy(shuffled, available)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		available = shuffled
	}

	if len(available) > batchSize {
		available = available[:batchSize]
	}

	materials, stocks, err := s.fetchSnapshot(session.WhsCode, available)
	if err != nil {
		return nil, err
	}

	code, err := s.generateSheetCode()
	if err != nil {
		return nil, err
	}

	sheet := models.CountSheet{
		Code:      code,
		SessionID: session.ID,
		WhsCode:   session.WhsCode,
		Status:    models.SheetCreated,
		CreatedBy: by,
	}

	for _, id := range available {
		material := materials[id]
		stock := stocks[id]
		sheet.Items = append(sheet.Items, models.CountSheetItem{
			MaterialID: id,
			ItemCode:   material.ItemCode,
			ItemName:   material.ItemName,
			Location:   stock.Location,
			Uom:        material.Uom,
			SystemQty:  stock.QtyOnHand,
			UnitCost:   material.UnitCost,
			Status:     models.ItemOpen,
			CreatedBy:  by,
		})
	}

	processed := append(session.Processed(), available...)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updated := session
		updated.SetProcessed(processed)

		res := tx.Model(&models.CountSession{}).
			Where("id = ? AND version = ?", session.ID, session.Version).
			Updates(map[string]interface{}{
				"processed_ids":   updated.ProcessedIDs,
				"processed_count": updated.ProcessedCount,
				"updated_by":      by,
				"version":         session.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		return tx.Create(&sheet).Error
	})
	if err != nil {
		return nil, err
	}

	return &sheet, nil
}

// fetchSnapshot bulk-loads material attributes and live stock for the
// selected IDs. The store caps point lookups per call, so the ID set is
// chunked at the configured page size and the pages merged.
func (s *BatchService) fetchSnapshot(whsCode string, ids []uint) (map[uint]models.Material, map[uint]models.MaterialStock, error) {
	materials := make(map[uint]models.Material, len(ids))
	stocks := make(map[uint]models.MaterialStock, len(ids))

	for _, page := range utils.ChunkIDs(ids, s.pageSize) {
		var pageMaterials []models.Material
		if err := s.db.Where("id IN ?", page).Find(&pageMaterials).Error; err != nil {
			return nil, nil, err
		}
		for _, m := range pageMaterials {
			materials[m.ID] = m
		}

		var pageStocks []models.MaterialStock
		if err := s.db.Where("whs_code = ? AND material_id IN ?", whsCode, page).
			Find(&pageStocks).Error; err != nil {
			return nil, nil, err
		}
		for _, st := range pageStocks {
			stocks[st.MaterialID] = st
		}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := materials[id]; !ok {
			missing = append(missing, id)
			continue
		}
		if _, ok := stocks[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &LookupIncompleteError{Missing: missing}
	}

	return materials, stocks, nil
}

// Sheet numbers: PI + date + 4 digit daily sequence.
func (s *BatchService) generateSheetCode() (string, error) {
	var last models.CountSheet
	if err := s.db.Last(&last).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	today := time.Now().Format("20060102")

	if last.Code != "" && len(last.Code) == len("PI"+today)+4 && last.Code[2:10] == today {
		var seq int
		fmt.Sscanf(last.Code[10:], "%d", &seq)
		return fmt.Sprintf("PI%s%04d", today, seq+1), nil
	}

	return fmt.Sprintf("PI%s%04d", today, 1), nil
}
