package services

import (
	"strings"

	"stocktake-app/models"

	"gorm.io/gorm"
)

type ScopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) *ScopeService {
	return &ScopeService{db}
}

// ResolveFullScope returns every material with a stock record in the
// warehouse, zero quantities included. Used for FULL and CYCLE campaigns.
func (s *ScopeService) ResolveFullScope(whsCode string) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&models.MaterialStock{}).
		Where("whs_code = ?", whsCode).
		Order("material_id asc").
		Pluck("material_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ResolveAdhocScope matches free-text terms case-insensitively against
// material codes and bin labels and returns the union of matched material
// IDs. Duplicate terms hitting the same stock row collapse to one ID.
func (s *ScopeService) ResolveAdhocScope(whsCode string, terms []string) ([]uint, error) {
	seen := make(map[uint]bool)
	var ids []uint

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		var matched []uint
		if err := s.db.Model(&models.MaterialStock{}).
			Joins("JOIN materials ON materials.id = material_stocks.material_id").
			Where("material_stocks.whs_code = ?", whsCode).
			Where("LOWER(materials.item_code) = ? OR LOWER(material_stocks.location) = ?", term, term).
			Order("material_stocks.material_id asc").
			Pluck("material_stocks.material_id", &matched).Error; err != nil {
			return nil, err
		}

		for _, id := range matched {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if len(ids) == 0 {
		return nil, ErrNoMatch
	}
	return ids, nil
}
