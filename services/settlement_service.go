package services

import (
	"fmt"

	"stocktake-app/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Monetary values within epsilon of zero carry no financial impact.
var epsilon = decimal.NewFromFloat(0.01)

// AllocationRow is one caller-supplied settlement line: a posting rule and
// the share of the target it absorbs. Ephemeral; only the journal entry it
// produces is persisted.
type AllocationRow struct {
	RuleCode   string          `json:"rule_code" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Department string          `json:"department"`
	Section    string          `json:"section"`
}

// PendingLine is one contributing item's not-yet-settled value.
type PendingLine struct {
	Description string
	Amount      decimal.Decimal
}

// SettlementService is the balanced-allocation engine shared by stock-take
// variance settlement and sales-order cost settlement. The two call sites
// differ only in how pending values are computed and how settled amounts
// are committed back.
type SettlementService struct {
	db  *gorm.DB
	seq *SequenceService
}

func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{db: db, seq: NewSequenceService(db)}
}

// settle validates the allocation rows against the net pending value and,
// on success, writes one balanced journal entry per row and runs the
// caller's commit step in the same transaction. A net value under epsilon
// settles with no journal entries at all.
func (s *SettlementService) settle(refType, refCode string, pending []PendingLine, rows []AllocationRow, by int, commit func(tx *gorm.DB) error) ([]models.JournalEntry, error) {
	net := decimal.Zero
	var descriptions []string
	for _, line := range pending {
		net = net.Add(line.Amount)
		descriptions = append(descriptions, line.Description)
	}
	absTarget := net.Abs()

	if absTarget.LessThan(epsilon) {
		if err := s.db.Transaction(commit); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"ref": refCode,
			"net": net.StringFixed(2),
		}).Info("zero-value settlement, no journal entries created")
		return nil, nil
	}

	if len(rows) == 0 {
		return nil, ErrNoAllocationRows
	}

	rules := make(map[string]models.PostingRule, len(rows))
	allocated := decimal.Zero
	for _, row := range rows {
		rule, ok := rules[row.RuleCode]
		if !ok {
			if err := s.db.First(&rule, "code = ? AND is_active = ?", row.RuleCode, true).Error; err != nil {
				return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, row.RuleCode)
			}
			rules[row.RuleCode] = rule
		}
		if !row.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: rule %s got %s", ErrZeroAmount, row.RuleCode, row.Amount)
		}
		if rule.CostCenterRequired && (row.Department == "" || row.Section == "") {
			return nil, fmt.Errorf("%w: rule %s", ErrMissingCostCenter, row.RuleCode)
		}
		allocated = allocated.Add(row.Amount)
	}

	if remainder := absTarget.Sub(allocated); remainder.Abs().GreaterThanOrEqual(epsilon) {
		return nil, &AllocationImbalanceError{
			Target:    absTarget,
			Allocated: allocated,
			Remainder: remainder,
		}
	}

	var entries []models.JournalEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			rule := rules[row.RuleCode]

			number, err := s.seq.Next(tx)
			if err != nil {
				return err
			}

			entry := models.JournalEntry{
				Number:     number,
				RuleCode:   rule.Code,
				RefType:    refType,
				RefCode:    refCode,
				Amount:     row.Amount,
				Department: row.Department,
				Section:    row.Section,
				CreatedBy:  by,
				Lines: []models.JournalLine{
					{AccountCode: rule.DebitAccount, Debit: row.Amount, Description: rule.Name},
					{AccountCode: rule.CreditAccount, Credit: row.Amount, Description: rule.Name},
				},
			}
			entry.SetSettledLines(descriptions)

			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		return commit(tx)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"ref":     refCode,
		"target":  absTarget.StringFixed(2),
		"entries": len(entries),
	}).Info("settlement committed")

	return entries, nil
}

// SettleSheet settles the posted-but-unsettled variance value of a count
// sheet. The sheet only reaches SETTLED once every item under it is
// settled; partial settlement is a normal persistent state.
func (s *SettlementService) SettleSheet(sheetCode string, rows []AllocationRow, by int) ([]models.JournalEntry, error) {
	var sheet models.CountSheet
	if err := s.db.Preload("Items").First(&sheet, "code = ?", sheetCode).Error; err != nil {
		return nil, err
	}

	var contributors []uint
	var pending []PendingLine
	for _, item := range sheet.Items {
		if item.Status != models.ItemPosted {
			continue
		}
		contributors = append(contributors, item.ID)
		pending = append(pending, PendingLine{
			Description: fmt.Sprintf("%s %s x %s @ %s", item.ItemCode, item.ItemName,
				item.PostedQty.Sub(item.SettledQty).String(), item.UnitCost.String()),
			Amount: item.PendingValue(),
		})
	}

	if len(contributors) == 0 {
		return nil, fmt.Errorf("sheet %s has no posted items awaiting settlement", sheetCode)
	}

	return s.settle(models.RefTypeCountSheet, sheet.Code, pending, rows, by, func(tx *gorm.DB) error {
		for _, id := range contributors {
			res := tx.Model(&models.CountSheetItem{}).
				Where("id = ? AND status = ?", id, models.ItemPosted).
				Updates(map[string]interface{}{
					"settled_qty": gorm.Expr("posted_qty"),
					"status":      models.ItemSettled,
					"updated_by":  by,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrencyConflict
			}
		}

		return rollupSheetStatus(tx, sheet.ID, by)
	})
}

// SettleSalesOrder allocates issued-minus-settled material cost of a sales
// order through the same engine.
func (s *SettlementService) SettleSalesOrder(orderCode string, rows []AllocationRow, by int) ([]models.JournalEntry, error) {
	var order models.SalesOrder
	if err := s.db.Preload("Items").First(&order, "code = ?", orderCode).Error; err != nil {
		return nil, err
	}

	var contributors []uint
	var pending []PendingLine
	for _, item := range order.Items {
		if item.Status == models.OrderSettled {
			continue
		}
		contributors = append(contributors, item.ID)
		pending = append(pending, PendingLine{
			Description: fmt.Sprintf("%s %s x %s @ %s", item.ItemCode, item.ItemName,
				item.IssuedQty.Sub(item.SettledQty).String(), item.UnitCost.String()),
			Amount: item.PendingValue(),
		})
	}

	if len(contributors) == 0 {
		return nil, fmt.Errorf("sales order %s has no unsettled items", orderCode)
	}

	return s.settle(models.RefTypeSalesOrder, order.Code, pending, rows, by, func(tx *gorm.DB) error {
		for _, id := range contributors {
			res := tx.Model(&models.SalesOrderItem{}).
				Where("id = ? AND status <> ?", id, models.OrderSettled).
				Updates(map[string]interface{}{
					"settled_qty": gorm.Expr("issued_qty"),
					"status":      models.OrderSettled,
					"updated_by":  by,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrencyConflict
			}
		}

		var open int64
		if err := tx.Model(&models.SalesOrderItem{}).
			Where("sales_order_id = ? AND status <> ?", order.ID, models.OrderSettled).
			Count(&open).Error; err != nil {
			return err
		}
		if open == 0 {
			return tx.Model(&models.SalesOrder{}).
				Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"status":     models.OrderSettled,
					"updated_by": by,
				}).Error
		}
		return nil
	})
}
