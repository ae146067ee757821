package repositories

import (
	"stocktake-app/models"

	"gorm.io/gorm"
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db}
}

// ListMovements is the audit-trail feed: signed quantity deltas with their
// monetary value, newest first.
func (r *MovementRepository) ListMovements(whsCode, refCode string) ([]models.StockMovement, error) {
	query := r.db.Order("created_at desc")
	if whsCode != "" {
		query = query.Where("whs_code = ?", whsCode)
	}
	if refCode != "" {
		query = query.Where("ref_code = ?", refCode)
	}

	var movements []models.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
