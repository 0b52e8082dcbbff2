package attendance

import (
	"time"

	"GENBA-backend/internal/worklog"
)

const (
	DateLayout      = worklog.DateLayout
	MaxReportDays   = 366
	FormatJSON      = "json"
	FormatCSV       = "csv"
	FormatCSVShift  = "csv-sjis"
	FormatXLSX      = "xlsx"
	DefaultFormat   = FormatJSON
	reportFilenameF = "sessions_%s_%s"
)

// 打刻登録リクエスト（NFC ページから送られてくる）
type CreatePunchRequest struct {
	Type            string  `json:"type" binding:"required"` // IN / OUT（出勤 / 退勤 も可）
	UserID          *string `json:"user_id,omitempty"`
	UserName        *string `json:"user_name,omitempty"`
	SiteID          *string `json:"site_id,omitempty"`
	SiteName        *string `json:"site_name,omitempty"`
	MachineID       *string `json:"machine_id,omitempty"`
	MachineName     *string `json:"machine_name,omitempty"`
	WorkDescription *string `json:"work_description,omitempty"`
	Timestamp       *string `json:"timestamp,omitempty"` // RFC3339。省略時はサーバー時刻
}

type PunchResponse struct {
	LogID     string    `json:"log_id"`
	Type      string    `json:"type"`
	PunchedAt time.Time `json:"punched_at"`
}

type MonthSummaryResponse struct {
	Year  int                          `json:"year"`
	Month int                          `json:"month"`
	Days  []worklog.CalendarDaySummary `json:"days"`
}

type DayDetailResponse struct {
	Date     string                  `json:"date"`
	Sessions []worklog.SessionDetail `json:"sessions"`
}

// ReportQuery: From / To は "YYYY-MM-DD"（両端含む）
type ReportQuery struct {
	From    string
	To      string
	Filters worklog.Filters
}

type WorkQuery struct {
	Year    int
	Month   int
	Filters worklog.Filters
}

type WorkAggregationResponse struct {
	Year  int                `json:"year"`
	Month int                `json:"month"`
	Users []worklog.UserWork `json:"users"`
}
