package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material is inventory master data, owned by an external system.
// The pipeline reads code/name/uom/cost and never writes them.
type Material struct {
	gorm.Model
	ItemCode  string          `json:"item_code" gorm:"unique;not null" validate:"required"`
	ItemName  string          `json:"item_name"`
	Uom       string          `json:"uom"`
	UnitCost  decimal.Decimal `json:"unit_cost" gorm:"type:decimal(20,4);default:0"`
	IsActive  bool            `json:"is_active" gorm:"default:true"`
	CreatedBy int             `json:"created_by"`
	UpdatedBy int             `json:"updated_by"`
}

// MaterialStock is the authoritative live quantity of one material in one
// warehouse. Only the posting engine mutates QtyOnHand; every write goes
// through a version-checked conditional update.
type MaterialStock struct {
	gorm.Model
	MaterialID uint            `json:"material_id" gorm:"index;not null"`
	WhsCode    string          `json:"whs_code" gorm:"index;not null"`
	Location   string          `json:"location"`
	QtyOnHand  decimal.Decimal `json:"qty_on_hand" gorm:"type:decimal(20,4);default:0"`
	Version    int             `json:"version" gorm:"default:0"`
	UpdatedBy  int             `json:"updated_by"`
}
