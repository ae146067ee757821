package repositories

import (
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db}
}

type SessionOverview struct {
	SessionCode    string  `json:"session_code"`
	WhsCode        string  `json:"whs_code"`
	CampaignType   string  `json:"campaign_type"`
	Status         string  `json:"status"`
	ScopeCount     int     `json:"scope_count"`
	ProcessedCount int     `json:"processed_count"`
	SheetCount     int     `json:"sheet_count"`
	SettledSheets  int     `json:"settled_sheets"`
	ItemCount      int     `json:"item_count"`
	PostedItems    int     `json:"posted_items"`
	SettledItems   int     `json:"settled_items"`
	ProgressScope  float64 `json:"progress_scope"`
	ProgressSettle float64 `json:"progress_settle"`
}

// GetSessionOverview feeds the stock-take dashboard: one row per session
// with sheet and item rollups. Read-only, no isolation requirements.
func (r *SessionRepository) GetSessionOverview() ([]SessionOverview, error) {

	sql := `WITH sheet_data AS
	(SELECT s.session_id,
	COUNT(s.id) AS sheet_count,
	SUM(CASE WHEN s.status = 'SETTLED' THEN 1 ELSE 0 END) AS settled_sheets
	FROM count_sheets s
	WHERE s.deleted_at IS NULL
	GROUP BY s.session_id),

	item_data AS
	(SELECT s.session_id,
	COUNT(i.id) AS item_count,
	SUM(CASE WHEN i.status IN ('POSTED','SETTLED') THEN 1 ELSE 0 END) AS posted_items,
	SUM(CASE WHEN i.status = 'SETTLED' THEN 1 ELSE 0 END) AS settled_items
	FROM count_sheet_items i
	INNER JOIN count_sheets s ON i.count_sheet_id = s.id
	WHERE i.deleted_at IS NULL
	GROUP BY s.session_id)

	SELECT c.code AS session_code, c.whs_code, c.campaign_type, c.status,
	c.scope_count, c.processed_count,
	COALESCE(sd.sheet_count, 0) AS sheet_count,
	COALESCE(sd.settled_sheets, 0) AS settled_sheets,
	COALESCE(it.item_count, 0) AS item_count,
	COALESCE(it.posted_items, 0) AS posted_items,
	COALESCE(it.settled_items, 0) AS settled_items,
	CASE WHEN c.scope_count > 0 THEN (c.processed_count * 100.0 / c.scope_count) ELSE 0 END AS progress_scope,
	CASE WHEN COALESCE(it.item_count, 0) > 0 THEN (COALESCE(it.settled_items, 0) * 100.0 / it.item_count) ELSE 0 END AS progress_settle
	FROM count_sessions c
	LEFT JOIN sheet_data sd ON sd.session_id = c.id
	LEFT JOIN item_data it ON it.session_id = c.id
	WHERE c.deleted_at IS NULL
	ORDER BY c.id DESC`

	var overview []SessionOverview

	if err := r.db.Raw(sql).Scan(&overview).Error; err != nil {
		return nil, err
	}

	return overview, nil
}
