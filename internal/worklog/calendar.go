package worklog

import "sort"

// SummarizeMonth: 現場タイムゾーンの日付ごとに打刻数・完了セッション数・時間をまとめる。
// 時間は日ごとの合計分に対して1回だけ丸め・休憩控除を行う（セッション単位では丸めない）
func (e *Engine) SummarizeMonth(logs []NormalizedLog) []CalendarDaySummary {
	byDate := make(map[string][]NormalizedLog)
	var dates []string
	for _, l := range sortLogs(logs) {
		d := e.localDate(l.TimestampMs)
		if _, ok := byDate[d]; !ok {
			dates = append(dates, d)
		}
		byDate[d] = append(byDate[d], l)
	}
	sort.Strings(dates)

	out := make([]CalendarDaySummary, 0, len(dates))
	for _, d := range dates {
		dayLogs := byDate[d]
		rawMinutes := 0
		closed := 0
		for _, s := range e.Pair(dayLogs) {
			if !s.Closed() {
				continue
			}
			closed++
			rawMinutes += s.DurationMinutes
		}
		out = append(out, CalendarDaySummary{
			Date:     d,
			Sites:    siteNames(dayLogs),
			Punches:  len(dayLogs),
			Sessions: closed,
			Hours:    e.calc.FromMinutes(float64(rawMinutes)).Hours,
		})
	}
	return out
}

// siteNames: 空でない現場名を初出順・重複なしで
func siteNames(logs []NormalizedLog) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, l := range logs {
		if l.SiteName == "" {
			continue
		}
		if _, ok := seen[l.SiteName]; ok {
			continue
		}
		seen[l.SiteName] = struct{}{}
		out = append(out, l.SiteName)
	}
	return out
}
