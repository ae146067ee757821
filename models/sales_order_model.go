package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderOpen    = "OPEN"
	OrderSettled = "SETTLED"
)

// SalesOrder is the second call site of the settlement allocator: material
// cost issued against an order is settled to ledger accounts with the same
// balance rules as stock-take variances. Order editing itself lives in
// another system; rows arrive here read-only except for settlement fields.
type SalesOrder struct {
	gorm.Model
	Code         string           `json:"code" gorm:"unique;not null"`
	CustomerName string           `json:"customer_name"`
	WhsCode      string           `json:"whs_code"`
	Status       string           `json:"status" gorm:"default:'OPEN'"`
	Items        []SalesOrderItem `json:"items" gorm:"foreignKey:SalesOrderID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedBy    int              `json:"created_by"`
	UpdatedBy    int              `json:"updated_by"`
}

type SalesOrderItem struct {
	gorm.Model
	SalesOrderID uint            `json:"sales_order_id" gorm:"index;not null"`
	MaterialID   uint            `json:"material_id" gorm:"index"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Uom          string          `json:"uom"`
	IssuedQty    decimal.Decimal `json:"issued_qty" gorm:"type:decimal(20,4);default:0"`
	SettledQty   decimal.Decimal `json:"settled_qty" gorm:"type:decimal(20,4);default:0"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(20,4);default:0"`
	Status       string          `json:"status" gorm:"default:'OPEN'"`
	UpdatedBy    int             `json:"updated_by"`
}

// PendingValue is the issued-minus-settled cost still to allocate.
func (i *SalesOrderItem) PendingValue() decimal.Decimal {
	return i.IssuedQty.Sub(i.SettledQty).Mul(i.UnitCost)
}
