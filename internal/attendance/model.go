package attendance

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strings"

	"GENBA-backend/internal/worklog"
)

// DB行に対応（スキャン用）
type punchRow struct {
	LogID  string
	Fields []byte // JSON。取得元ごとにキー名が違う
}

type workSessionRow struct {
	SessionID       string
	UserKey         sql.NullString
	SiteName        sql.NullString
	MachineID       sql.NullString
	MachineName     sql.NullString
	StartedAt       sql.NullTime
	EndedAt         sql.NullTime
	DurationMinutes sql.NullFloat64
}

// Punch: Store に渡す新規打刻
type Punch struct {
	LogID  string
	Fields map[string]any
}

// toRecord: fields が壊れている行は ok=false（呼び出し側で読み飛ばす）
func (r punchRow) toRecord() (worklog.RawRecord, bool) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(r.Fields)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(r.Fields))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return worklog.RawRecord{}, false
		}
	}
	return worklog.RawRecord{ID: r.LogID, Fields: fields}, true
}

func (r workSessionRow) toModel() worklog.WorkSession {
	s := worklog.WorkSession{
		ID:          r.SessionID,
		UserKey:     strings.TrimSpace(r.UserKey.String),
		SiteName:    r.SiteName.String,
		MachineID:   r.MachineID.String,
		MachineName: r.MachineName.String,
	}
	if r.StartedAt.Valid {
		t := r.StartedAt.Time.UTC()
		s.StartedAt = &t
	}
	if r.EndedAt.Valid {
		t := r.EndedAt.Time.UTC()
		s.EndedAt = &t
	}
	if r.DurationMinutes.Valid {
		v := r.DurationMinutes.Float64
		s.DurationMinutes = &v
	}
	return s
}

// punchFields: 打刻リクエスト → 保存用 fields（正規名のキーで保存）
func punchFields(in CreatePunchRequest, typ worklog.PunchType, punchedAtMs int64) map[string]any {
	f := map[string]any{
		"type":      string(typ),
		"timestamp": punchedAtMs,
	}
	put := func(key string, v *string) {
		if v == nil {
			return
		}
		if s := strings.TrimSpace(*v); s != "" {
			f[key] = s
		}
	}
	put("user_id", in.UserID)
	put("user_name", in.UserName)
	put("site_id", in.SiteID)
	put("site_name", in.SiteName)
	put("machine_id", in.MachineID)
	put("machine_name", in.MachineName)
	put("work_description", in.WorkDescription)
	return f
}
