package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"stocktake-app/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SessionService struct {
	db     *gorm.DB
	scopes *ScopeService
	mailer *MailerService
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{
		db:     db,
		scopes: NewScopeService(db),
		mailer: NewMailerService(),
	}
}

type CreateSessionRequest struct {
	WhsCode      string    `json:"whs_code" validate:"required"`
	CampaignType string    `json:"campaign_type" validate:"required"`
	Frequency    string    `json:"frequency"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Terms        []string  `json:"terms"`
}

// SessionProgress is the dashboard payload. SuggestedBatchSize spreads the
// remaining scope over the days left in the window; a hint, not a limit.
type SessionProgress struct {
	Code               string `json:"code"`
	Status             string `json:"status"`
	ScopeCount         int    `json:"scope_count"`
	ProcessedCount     int    `json:"processed_count"`
	RemainingCount     int    `json:"remaining_count"`
	SheetCount         int    `json:"sheet_count"`
	SettledSheetCount  int    `json:"settled_sheet_count"`
	SuggestedBatchSize int    `json:"suggested_batch_size"`
}

// CreateSession resolves the scope once, at creation time, and opens the
// campaign at ACTIVE.
func (s *SessionService) CreateSession(req CreateSessionRequest, by int) (*models.CountSession, error) {
	var warehouse models.Warehouse
	if err := s.db.First(&warehouse, "whs_code = ?", req.WhsCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("warehouse %s not found", req.WhsCode)
		}
		return nil, err
	}

	switch req.CampaignType {
	case models.CampaignFull, models.CampaignCycle, models.CampaignAdhoc:
	default:
		return nil, fmt.Errorf("invalid campaign type %q", req.CampaignType)
	}

	var scope []uint
	var err error
	if req.CampaignType == models.CampaignAdhoc {
		scope, err = s.scopes.ResolveAdhocScope(req.WhsCode, req.Terms)
	} else {
		scope, err = s.scopes.ResolveFullScope(req.WhsCode)
	}
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return nil, ErrEmptyScope
	}

	code, err := s.generateSessionCode()
	if err != nil {
		return nil, err
	}

	session := models.CountSession{
		Code:         code,
		WhsCode:      req.WhsCode,
		CampaignType: req.CampaignType,
		Frequency:    req.Frequency,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       models.SessionActive,
		CreatedBy:    by,
	}
	session.SetScope(scope)
	session.SetProcessed(nil)

	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *SessionService) GetByCode(code string) (*models.CountSession, error) {
	var session models.CountSession
	if err := s.db.First(&session, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionService) ListSessions() ([]models.CountSession, error) {
	var sessions []models.CountSession
	if err := s.db.Order("id desc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionService) Pause(code string, by int) (*models.CountSession, error) {
	return s.transition(code, models.SessionActive, models.SessionPaused, by)
}

func (s *SessionService) Resume(code string, by int) (*models.CountSession, error) {
	return s.transition(code, models.SessionPaused, models.SessionActive, by)
}

func (s *SessionService) transition(code, from, to string, by int) (*models.CountSession, error) {
	session, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}
	if session.Status != from {
		return nil, fmt.Errorf("%w: session %s is %s", ErrSessionNotActive, code, session.Status)
	}

	res := s.db.Model(&models.CountSession{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": by,
			"version":    session.Version + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConcurrencyConflict
	}

	return s.GetByCode(code)
}

// CloseSession moves the campaign to COMPLETED. The normal path requires
// the whole scope batched and every sheet settled; force bypasses both and
// is recorded as an administrative override.
func (s *SessionService) CloseSession(code string, force bool, by int) (*models.CountSession, error) {
	session, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, ErrSessionCompleted
	}

	if !force {
		if remaining := len(session.Remaining()); remaining > 0 {
			return nil, fmt.Errorf("%w: %d materials not yet batched", ErrSessionIncomplete, remaining)
		}
		var open int64
		if err := s.db.Model(&models.CountSheet{}).
			Where("session_id = ? AND status <> ?", session.ID, models.SheetSettled).
			Count(&open).Error; err != nil {
			return nil, err
		}
		if open > 0 {
			return nil, fmt.Errorf("%w: %d sheets not yet settled", ErrSessionIncomplete, open)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CountSession{}).
			Where("id = ? AND version = ?", session.ID, session.Version).
			Updates(map[string]interface{}{
				"status":       models.SessionCompleted,
				"forced_close": force,
				"updated_by":   by,
				"version":      session.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrencyConflict
		}

		if force {
			// Sheets left behind by the override are frozen at PARTIAL,
			// a terminal state distinct from a settled sheet.
			return tx.Model(&models.CountSheet{}).
				Where("session_id = ? AND status <> ?", session.ID, models.SheetSettled).
				Updates(map[string]interface{}{
					"status":     models.SheetPartial,
					"updated_by": by,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	closed, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if force {
		logrus.WithFields(logrus.Fields{
			"session": closed.Code,
			"user":    by,
		}).Warn("session force-closed: completion precondition bypassed")
	} else {
		logrus.WithField("session", closed.Code).Info("session completed")
	}

	s.mailer.SendSessionCompleted(closed)

	return closed, nil
}

// Progress reports scope coverage and the suggested size of the next batch.
func (s *SessionService) Progress(code string) (*SessionProgress, error) {
	session, err := s.GetByCode(code)
	if err != nil {
		return nil, err
	}

	var total, settled int64
	if err := s.db.Model(&models.CountSheet{}).
		Where("session_id = ?", session.ID).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.CountSheet{}).
		Where("session_id = ? AND status = ?", session.ID, models.SheetSettled).
		Count(&settled).Error; err != nil {
		return nil, err
	}

	remaining := len(session.Remaining())

	return &SessionProgress{
		Code:               session.Code,
		Status:             session.Status,
		ScopeCount:         session.ScopeCount,
		ProcessedCount:     session.ProcessedCount,
		RemainingCount:     remaining,
		SheetCount:         int(total),
		SettledSheetCount:  int(settled),
		SuggestedBatchSize: suggestedBatchSize(remaining, session.EndDate, time.Now()),
	}, nil
}

// suggestedBatchSize = ceil(remaining / daysRemainingInWindow), with at
// least one day so a late session still gets a finite suggestion.
func suggestedBatchSize(remaining int, endDate, now time.Time) int {
	if remaining == 0 {
		return 0
	}
	days := int(math.Ceil(endDate.Sub(now).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return int(math.Ceil(float64(remaining) / float64(days)))
}

// Session codes follow the sheet numbering style: PIS + date + 4 digit
// daily sequence.
func (s *SessionService) generateSessionCode() (string, error) {
	var last models.CountSession
	if err := s.db.Last(&last).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	today := time.Now().Format("20060102")

	if last.Code != "" && len(last.Code) == len("PIS"+today)+4 && last.Code[3:11] == today {
		var seq int
		fmt.Sscanf(last.Code[11:], "%d", &seq)
		return fmt.Sprintf("PIS%s%04d", today, seq+1), nil
	}

	return fmt.Sprintf("PIS%s%04d", today, 1), nil
}
