package worklog

import "time"

type PunchType string

const (
	PunchIn  PunchType = "IN"
	PunchOut PunchType = "OUT"
)

type SessionStatus string

const (
	StatusClosed SessionStatus = "正常"
	StatusOpen   SessionStatus = "稼働中"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	UnknownUserKey  = "unknown-user"
	UnregisteredTag = "未登録ユーザー"
	descriptionSep  = "、"
)

// RawRecord: レコードストアから取得したままの1行。フィールド名は取得元によってまちまち
type RawRecord struct {
	ID     string
	Fields map[string]any
}

// NormalizedLog: 打刻1件。1リクエスト内でのみ使う（永続化しない）
type NormalizedLog struct {
	ID           string
	Type         PunchType
	TimestampMs  int64
	HasTimestamp bool

	UserID         string
	UserName       string
	UserLookupKeys []string

	MachineID   string
	MachineName string
	SiteID      string
	SiteName    string

	WorkDescriptions []string
}

// Usable: ペアリングに使えるか（時刻と種別が解釈できたか）
func (l NormalizedLog) Usable() bool {
	return l.HasTimestamp && (l.Type == PunchIn || l.Type == PunchOut)
}

// UserKey: userId → userName → unknown-user の順で決まるペアリング単位
func (l NormalizedLog) UserKey() string {
	if l.UserID != "" {
		return l.UserID
	}
	if l.UserName != "" {
		return l.UserName
	}
	return UnknownUserKey
}

type SessionDetail struct {
	UserID          string        `json:"user_id"`
	UserName        string        `json:"user_name"`
	SiteName        string        `json:"site_name"`
	MachineID       string        `json:"machine_id"`
	MachineName     string        `json:"machine_name"`
	WorkDescription string        `json:"work_description"`
	StartMs         int64         `json:"start_ms"`
	EndMs           *int64        `json:"end_ms,omitempty"`
	Status          SessionStatus `json:"status"`
	ClockInAt       string        `json:"clock_in_at"`
	ClockOutAt      string        `json:"clock_out_at,omitempty"`
	Hours           *float64      `json:"hours,omitempty"`

	// 丸め前の経過分（閉じたセッションのみ）。日次集計で合算してから丸める
	DurationMinutes int `json:"duration_minutes,omitempty"`
}

func (s SessionDetail) Closed() bool { return s.Status == StatusClosed }

type CalendarDaySummary struct {
	Date     string   `json:"date"`
	Sites    []string `json:"sites"`
	Punches  int      `json:"punches"`
	Sessions int      `json:"sessions"`
	Hours    float64  `json:"hours"`
}

type SessionReportRow struct {
	Date            string  `json:"date"`
	UserName        string  `json:"user_name"`
	SiteName        string  `json:"site_name"`
	MachineName     string  `json:"machine_name"`
	WorkDescription string  `json:"work_description"`
	ClockInAt       string  `json:"clock_in_at"`
	ClockOutAt      string  `json:"clock_out_at"`
	Hours           float64 `json:"hours"`
}

// WorkSession: 上流ですでにペアリング済みのセッション（work_sessions テーブル）
type WorkSession struct {
	ID              string
	UserKey         string
	SiteName        string
	MachineID       string
	MachineName     string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationMinutes *float64
}

// Filters: 空文字の項目は無条件。全項目 AND
type Filters struct {
	SiteName  string
	MachineID string
	UserKey   string
}

type BreakdownItem struct {
	Label   string  `json:"label"`
	Minutes float64 `json:"minutes"`
}

type WorkDay struct {
	Day       string          `json:"day"`
	RawMins   float64         `json:"raw_mins"`
	TotalMins float64         `json:"total_mins"`
	Hours     float64         `json:"hours"`
	Breakdown []BreakdownItem `json:"breakdown"`
}

type UserWork struct {
	UserKey  string    `json:"user_key"`
	UserName string    `json:"user_name"`
	Days     []WorkDay `json:"days"`
}

// FixedZone: 現場の固定UTCオフセット（分）。夏時間は扱わない
func FixedZone(offsetMinutes int) *time.Location {
	return time.FixedZone("site", offsetMinutes*60)
}
