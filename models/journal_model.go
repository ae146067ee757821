package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JournalCounter is the single shared sequence row behind journal numbers.
// Incremented in place inside the settlement transaction; a rollback after
// the increment leaves a gap, which is accepted — numbers are unique and
// increasing, not contiguous.
type JournalCounter struct {
	gorm.Model
	LastValue int64 `json:"last_value" gorm:"default:0"`
}

// JournalEntry is an immutable ledger record: one allocation row settled
// against one posting rule, expanded into a balanced debit/credit pair.
// Never updated after creation.
type JournalEntry struct {
	gorm.Model
	Number       string          `json:"number" gorm:"unique;not null"`
	RuleCode     string          `json:"rule_code" gorm:"index"`
	RefType      string          `json:"ref_type" gorm:"index"`
	RefCode      string          `json:"ref_code" gorm:"index"`
	Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(20,4);default:0"`
	Department   string          `json:"department"`
	Section      string          `json:"section"`
	SettledLines string          `json:"-" gorm:"type:text"`
	Lines        []JournalLine   `json:"lines" gorm:"foreignKey:JournalEntryID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedBy    int             `json:"created_by"`
}

type JournalLine struct {
	gorm.Model
	JournalEntryID uint            `json:"journal_entry_id" gorm:"index;not null"`
	AccountCode    string          `json:"account_code" gorm:"not null"`
	Debit          decimal.Decimal `json:"debit" gorm:"type:decimal(20,4);default:0"`
	Credit         decimal.Decimal `json:"credit" gorm:"type:decimal(20,4);default:0"`
	Description    string          `json:"description"`
}

func (j *JournalEntry) SetSettledLines(lines []string) {
	if lines == nil {
		lines = []string{}
	}
	b, _ := json.Marshal(lines)
	j.SettledLines = string(b)
}

func (j *JournalEntry) SettledLineList() []string {
	if j.SettledLines == "" {
		return nil
	}
	var lines []string
	if err := json.Unmarshal([]byte(j.SettledLines), &lines); err != nil {
		return nil
	}
	return lines
}
