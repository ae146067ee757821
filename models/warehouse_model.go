package models

import (
	"gorm.io/gorm"
)

// Warehouse is a node from the external hierarchy service. Read-only
// master data here; the pipeline only scopes sessions and movements by it.
type Warehouse struct {
	gorm.Model
	WhsCode   string `json:"whs_code" gorm:"unique;not null"`
	WhsName   string `json:"whs_name"`
	Path      string `json:"path"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	CreatedBy int    `json:"created_by"`
	UpdatedBy int    `json:"updated_by"`
}
