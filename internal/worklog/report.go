package worklog

import (
	"sort"
	"strings"
	"time"
)

// BuildReport: 完了セッションだけを1行ずつ帳票行にする
func (e *Engine) BuildReport(logs []NormalizedLog) []SessionReportRow {
	return e.BuildReportFiltered(logs, Filters{})
}

// BuildReportFiltered: BuildReport に現場名・機械ID・ユーザーキーの絞り込みを加えたもの
func (e *Engine) BuildReportFiltered(logs []NormalizedLog, f Filters) []SessionReportRow {
	var rows []SessionReportRow
	for _, s := range e.Pair(logs) {
		if !s.Closed() || !f.matchSession(s) {
			continue
		}
		rows = append(rows, SessionReportRow{
			Date:            e.localDate(s.StartMs),
			UserName:        firstNonEmpty(s.UserName, s.UserID),
			SiteName:        s.SiteName,
			MachineName:     machineLabel(s.MachineName, s.MachineID),
			WorkDescription: s.WorkDescription,
			ClockInAt:       e.isoMinute(s.StartMs),
			ClockOutAt:      e.isoMinute(*s.EndMs),
			Hours:           *s.Hours,
		})
	}
	SortReportRows(rows)
	return rows
}

// SortReportRows: 現場 → 作業員 → 機械 → 日付 → 出勤時刻（日本語照合）
func SortReportRows(rows []SessionReportRow) {
	c := newCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		pairs := [][2]string{
			{a.SiteName, b.SiteName},
			{a.UserName, b.UserName},
			{a.MachineName, b.MachineName},
			{a.Date, b.Date},
			{a.ClockInAt, b.ClockInAt},
		}
		for _, p := range pairs {
			if r := c.CompareString(p[0], p[1]); r != 0 {
				return r < 0
			}
		}
		return false
	})
}

// isoMinute: 現場の日付＋時刻（分まで）を固定オフセット付き ISO 8601 で
func (e *Engine) isoMinute(ms int64) string {
	local := time.UnixMilli(ms).In(e.loc)
	at, err := time.ParseInLocation("2006-01-02 15:04", local.Format(DateLayout)+" "+local.Format(ClockLayout), e.loc)
	if err != nil {
		return local.Format(time.RFC3339)
	}
	return at.Format(time.RFC3339)
}

func machineLabel(name, id string) string {
	return firstNonEmpty(name, id)
}

func (f Filters) matchSession(s SessionDetail) bool {
	if v := strings.TrimSpace(f.SiteName); v != "" && strings.TrimSpace(s.SiteName) != v {
		return false
	}
	if v := strings.TrimSpace(f.MachineID); v != "" && strings.TrimSpace(s.MachineID) != v {
		return false
	}
	if v := strings.TrimSpace(f.UserKey); v != "" && sessionUserKey(s) != v {
		return false
	}
	return true
}

func sessionUserKey(s SessionDetail) string {
	if s.UserID != "" {
		return s.UserID
	}
	if s.UserName != "" {
		return s.UserName
	}
	return UnknownUserKey
}
