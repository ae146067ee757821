package repositories

import (
	"stocktake-app/models"

	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) *JournalRepository {
	return &JournalRepository{db}
}

// ListEntries returns ledger entries with their debit/credit line pairs,
// newest first, optionally filtered by source document.
func (r *JournalRepository) ListEntries(refType, refCode string) ([]models.JournalEntry, error) {
	query := r.db.Preload("Lines").Order("id desc")
	if refType != "" {
		query = query.Where("ref_type = ?", refType)
	}
	if refCode != "" {
		query = query.Where("ref_code = ?", refCode)
	}

	var entries []models.JournalEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
