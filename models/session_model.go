package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	CampaignFull  = "FULL"
	CampaignCycle = "CYCLE"
	CampaignAdhoc = "ADHOC"

	SessionActive    = "ACTIVE"
	SessionPaused    = "PAUSED"
	SessionCompleted = "COMPLETED"
)

// CountSession is one counting campaign over a single warehouse. The scope
// and processed material-ID sets are stored as JSON so the whole session
// stays one optimistic-locked row: every mutation bumps Version and commits
// through a conditional update.
type CountSession struct {
	gorm.Model
	Code           string    `json:"code" gorm:"unique;not null"`
	WhsCode        string    `json:"whs_code" gorm:"index;not null"`
	CampaignType   string    `json:"campaign_type" gorm:"not null"`
	Frequency      string    `json:"frequency"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Status         string    `json:"status" gorm:"default:'ACTIVE'"`
	ForcedClose    bool      `json:"forced_close" gorm:"default:false"`
	ScopeIDs       string    `json:"-" gorm:"type:text"`
	ProcessedIDs   string    `json:"-" gorm:"type:text"`
	ScopeCount     int       `json:"scope_count"`
	ProcessedCount int       `json:"processed_count"`
	Version        int       `json:"version" gorm:"default:0"`
	CreatedBy      int       `json:"created_by"`
	UpdatedBy      int       `json:"updated_by"`
}

func (s *CountSession) Scope() []uint {
	return decodeIDSet(s.ScopeIDs)
}

func (s *CountSession) Processed() []uint {
	return decodeIDSet(s.ProcessedIDs)
}

func (s *CountSession) SetScope(ids []uint) {
	s.ScopeIDs = encodeIDSet(ids)
	s.ScopeCount = len(ids)
}

func (s *CountSession) SetProcessed(ids []uint) {
	s.ProcessedIDs = encodeIDSet(ids)
	s.ProcessedCount = len(ids)
}

// Remaining returns scope minus processed, preserving scope order.
func (s *CountSession) Remaining() []uint {
	done := make(map[uint]bool)
	for _, id := range s.Processed() {
		done[id] = true
	}
	var remaining []uint
	for _, id := range s.Scope() {
		if !done[id] {
			remaining = append(remaining, id)
		}
	}
	return remaining
}

func encodeIDSet(ids []uint) string {
	if ids == nil {
		ids = []uint{}
	}
	b, _ := json.Marshal(ids)
	return string(b)
}

func decodeIDSet(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}
