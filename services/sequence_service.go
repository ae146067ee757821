package services

import (
	"errors"
	"fmt"

	"stocktake-app/models"

	"gorm.io/gorm"
)

// SequenceService issues zero-padded journal numbers from a single shared
// counter row. The increment is a single conditional UPDATE, so concurrent
// settlements never observe the same value; if the surrounding transaction
// rolls back after the increment, the number is burned and the sequence
// keeps a gap.
type SequenceService struct {
	db *gorm.DB
}

func NewSequenceService(db *gorm.DB) *SequenceService {
	return &SequenceService{db}
}

// EnsureCounter creates the counter row when it does not exist yet.
// Called once at startup, after migration.
func (s *SequenceService) EnsureCounter() error {
	var counter models.JournalCounter
	err := s.db.First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.JournalCounter{LastValue: 0}).Error
	}
	return err
}

// Next increments the counter inside the caller's transaction and returns
// the new journal number. The row lock taken by the UPDATE serializes
// concurrent callers until their transactions finish.
func (s *SequenceService) Next(tx *gorm.DB) (string, error) {
	var counter models.JournalCounter
	if err := tx.First(&counter).Error; err != nil {
		return "", err
	}

	res := tx.Model(&models.JournalCounter{}).
		Where("id = ?", counter.ID).
		UpdateColumn("last_value", gorm.Expr("last_value + ?", 1))
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", ErrConcurrencyConflict
	}

	if err := tx.First(&counter, counter.ID).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("JE%08d", counter.LastValue), nil
}
