package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	SheetCreated         = "CREATED"
	SheetCounted         = "COUNTED"
	SheetPartiallyPosted = "PARTIALLY_POSTED"
	SheetPosted          = "POSTED"
	SheetSettled         = "SETTLED"
	SheetPartial         = "PARTIAL"

	ItemOpen    = "OPEN"
	ItemCounted = "COUNTED"
	ItemPosted  = "POSTED"
	ItemSettled = "SETTLED"
)

// CountSheet is one batch of materials presented for counting (the PI
// document). Owned by exactly one session; a material appears in at most
// one sheet per session, enforced by the processed-set check at generation.
type CountSheet struct {
	gorm.Model
	Code      string           `json:"code" gorm:"unique;not null"`
	SessionID uint             `json:"session_id" gorm:"index;not null"`
	WhsCode   string           `json:"whs_code"`
	Status    string           `json:"status" gorm:"default:'CREATED'"`
	Items     []CountSheetItem `json:"items" gorm:"foreignKey:CountSheetID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedBy int              `json:"created_by"`
	UpdatedBy int              `json:"updated_by"`
}

// CountSheetItem is one material's counting record. SystemQty is frozen at
// sheet generation: it records what we expected to find even if master data
// drifts afterwards. PostedQty is written exactly once, SettledQty only
// catches up to it.
type CountSheetItem struct {
	gorm.Model
	CountSheetID uint            `json:"count_sheet_id" gorm:"index;not null"`
	MaterialID   uint            `json:"material_id" gorm:"index;not null"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Location     string          `json:"location"`
	Uom          string          `json:"uom"`
	SystemQty    decimal.Decimal `json:"system_qty" gorm:"type:decimal(20,4);default:0"`
	CountedQty   decimal.Decimal `json:"counted_qty" gorm:"type:decimal(20,4);default:0"`
	Counted      bool            `json:"counted" gorm:"default:false"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(20,4);default:0"`
	PostedQty    decimal.Decimal `json:"posted_qty" gorm:"type:decimal(20,4);default:0"`
	SettledQty   decimal.Decimal `json:"settled_qty" gorm:"type:decimal(20,4);default:0"`
	Status       string          `json:"status" gorm:"default:'OPEN'"`
	Notes        string          `json:"notes"`
	CreatedBy    int             `json:"created_by"`
	UpdatedBy    int             `json:"updated_by"`
}

// EffectiveCount falls back to the frozen system quantity when no count was
// recorded, which yields a zero variance.
func (i *CountSheetItem) EffectiveCount() decimal.Decimal {
	if i.Counted {
		return i.CountedQty
	}
	return i.SystemQty
}

// Variance is counted minus system at freeze time.
func (i *CountSheetItem) Variance() decimal.Decimal {
	return i.EffectiveCount().Sub(i.SystemQty)
}

// VarianceValue is the monetary value of the variance.
func (i *CountSheetItem) VarianceValue() decimal.Decimal {
	return i.Variance().Mul(i.UnitCost)
}

// PendingValue is the not-yet-settled portion of the posted variance value.
func (i *CountSheetItem) PendingValue() decimal.Decimal {
	return i.PostedQty.Sub(i.SettledQty).Mul(i.UnitCost)
}
