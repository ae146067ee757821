package models

import (
	"gorm.io/gorm"
)

// PostingRule maps a settlement reason to a debit/credit account pair.
// Finance configuration, read-only to this pipeline.
type PostingRule struct {
	gorm.Model
	Code               string `json:"code" gorm:"unique;not null"`
	Name               string `json:"name"`
	DebitAccount       string `json:"debit_account" gorm:"not null"`
	CreditAccount      string `json:"credit_account" gorm:"not null"`
	CostCenterRequired bool   `json:"cost_center_required" gorm:"default:false"`
	IsActive           bool   `json:"is_active" gorm:"default:true"`
	CreatedBy          int    `json:"created_by"`
	UpdatedBy          int    `json:"updated_by"`
}
