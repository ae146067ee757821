package models

import (
	"stocktake-app/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MovementAdjustment = "ADJUSTMENT"

	RefTypeCountSheet = "PI"
	RefTypeSalesOrder = "SO"
)

// StockMovement is the immutable audit trail of quantity changes. Rows are
// appended by the posting engine and never updated or deleted.
type StockMovement struct {
	gorm.Model
	ID         types.SnowflakeID `json:"ID" gorm:"primaryKey"`
	Kind       string            `json:"kind" gorm:"index;not null"`
	WhsCode    string            `json:"whs_code" gorm:"index"`
	MaterialID uint              `json:"material_id" gorm:"index"`
	ItemCode   string            `json:"item_code"`
	Qty        decimal.Decimal   `json:"qty" gorm:"type:decimal(20,4);default:0"`
	Value      decimal.Decimal   `json:"value" gorm:"type:decimal(20,4);default:0"`
	RefType    string            `json:"ref_type"`
	RefCode    string            `json:"ref_code" gorm:"index"`
	CreatedBy  int               `json:"created_by"`
}
