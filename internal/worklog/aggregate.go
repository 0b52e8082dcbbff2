package worklog

import (
	"math"
	"sort"
	"strings"
)

const unsetLabel = "未設定"

type dayBucket struct {
	raw       float64
	breakdown map[string]float64
}

type userBucket struct {
	key  string
	name string
	days map[string]*dayBucket
}

// AggregateByMonth: ペアリング済みセッションをユーザー × 日で合算する。
// 日ごとの合計分に丸め・休憩控除を1回だけ適用する
func (e *Engine) AggregateByMonth(sessions []WorkSession, f Filters, names NameResolver) []UserWork {
	users := make(map[string]*userBucket)

	for _, s := range sessions {
		if !f.matchWork(s) {
			continue
		}
		mins, ok := sessionMinutes(s)
		if !ok {
			continue
		}
		day, ok := e.sessionDay(s)
		if !ok {
			continue
		}

		key := strings.TrimSpace(s.UserKey)
		u, ok := users[key]
		if !ok {
			u = &userBucket{key: key, name: displayName(key, names), days: map[string]*dayBucket{}}
			users[key] = u
		}
		d, ok := u.days[day]
		if !ok {
			d = &dayBucket{breakdown: map[string]float64{}}
			u.days[day] = d
		}
		d.raw += mins
		d.breakdown[breakdownLabel(s)] += mins
	}

	c := newCollator()
	out := make([]UserWork, 0, len(users))
	for _, u := range users {
		uw := UserWork{UserKey: u.key, UserName: u.name, Days: make([]WorkDay, 0, len(u.days))}
		for day, d := range u.days {
			r := e.calc.FromMinutes(d.raw)
			items := make([]BreakdownItem, 0, len(d.breakdown))
			for label, m := range d.breakdown {
				items = append(items, BreakdownItem{Label: label, Minutes: m})
			}
			sort.SliceStable(items, func(i, j int) bool {
				return c.CompareString(items[i].Label, items[j].Label) < 0
			})
			uw.Days = append(uw.Days, WorkDay{
				Day:       day,
				RawMins:   d.raw,
				TotalMins: r.Minutes,
				Hours:     r.Hours,
				Breakdown: items,
			})
		}
		sort.Slice(uw.Days, func(i, j int) bool { return uw.Days[i].Day < uw.Days[j].Day })
		out = append(out, uw)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if r := c.CompareString(out[i].UserName, out[j].UserName); r != 0 {
			return r < 0
		}
		return out[i].UserKey < out[j].UserKey
	})
	return out
}

// sessionMinutes: 明示の所要時間を優先，無ければ開始・終了から求める
func sessionMinutes(s WorkSession) (float64, bool) {
	if s.DurationMinutes != nil {
		m := *s.DurationMinutes
		if !math.IsNaN(m) && !math.IsInf(m, 0) && m >= 0 {
			return m, true
		}
	}
	if s.StartedAt == nil || s.EndedAt == nil || !s.EndedAt.After(*s.StartedAt) {
		return 0, false
	}
	return math.Round(s.EndedAt.Sub(*s.StartedAt).Minutes()), true
}

func (e *Engine) sessionDay(s WorkSession) (string, bool) {
	switch {
	case s.StartedAt != nil:
		return s.StartedAt.In(e.loc).Format(DateLayout), true
	case s.EndedAt != nil:
		return s.EndedAt.In(e.loc).Format(DateLayout), true
	}
	return "", false
}

// displayName: マスタの表示名 → 生のキー → 未登録ユーザー
func displayName(key string, names NameResolver) string {
	if names != nil {
		if v, ok := names.UserName(key); ok {
			return v
		}
	}
	if key != "" {
		return key
	}
	return UnregisteredTag
}

func breakdownLabel(s WorkSession) string {
	site := firstNonEmpty(strings.TrimSpace(s.SiteName), unsetLabel)
	machine := firstNonEmpty(strings.TrimSpace(machineLabel(s.MachineName, s.MachineID)), unsetLabel)
	return site + " / " + machine
}

func (f Filters) matchWork(s WorkSession) bool {
	if v := strings.TrimSpace(f.SiteName); v != "" && strings.TrimSpace(s.SiteName) != v {
		return false
	}
	if v := strings.TrimSpace(f.MachineID); v != "" && strings.TrimSpace(s.MachineID) != v {
		return false
	}
	if v := strings.TrimSpace(f.UserKey); v != "" && strings.TrimSpace(s.UserKey) != v {
		return false
	}
	return true
}
