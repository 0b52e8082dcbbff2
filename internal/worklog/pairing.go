package worklog

import (
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"GENBA-backend/internal/timecalc"
)

type WarningKind string

const (
	WarnConsecutiveIn       WarningKind = "consecutive_in"
	WarnUnmatchedOut        WarningKind = "unmatched_out"
	WarnNonPositiveDuration WarningKind = "non_positive_duration"
	WarnOpenAtEnd           WarningKind = "open_at_end"
)

// Warning: ペアリング中の異常。処理は止めずに通知だけする
type Warning struct {
	Kind    WarningKind
	UserKey string
	LogID   string
	AtMs    int64
}

type WarnFunc func(Warning)

// LogWarning: 既定の通知先（標準ログ）
func LogWarning(w Warning) {
	log.Printf("[WARN] worklog: %s user=%s log=%s at=%d", w.Kind, w.UserKey, w.LogID, w.AtMs)
}

// Engine: 打刻 → セッション → 日次/帳票/集計。状態は持たず，呼び出しごとに完結する
type Engine struct {
	calc timecalc.Config
	loc  *time.Location
	warn WarnFunc
}

func NewEngine(calc timecalc.Config, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{calc: calc, loc: loc, warn: LogWarning}
}

// WithWarn: 通知先を差し替えたコピー
func (e *Engine) WithWarn(fn WarnFunc) *Engine {
	cp := *e
	if fn == nil {
		fn = func(Warning) {}
	}
	cp.warn = fn
	return &cp
}

// WithCalc: 1回の呼び出し用に計算設定を差し替えたコピー
func (e *Engine) WithCalc(cfg timecalc.Config) *Engine {
	cp := *e
	cp.calc = cfg
	return &cp
}

func (e *Engine) Calc() timecalc.Config   { return e.calc }
func (e *Engine) Location() *time.Location { return e.loc }

// openSlot: ユーザーごとの「未退勤の出勤」
type openSlot struct {
	in NormalizedLog
}

// Pair: 打刻列からセッションを作る。
// - 同一ユーザーの出勤が連続したら，前の出勤を稼働中セッションとしてその場で出力する
// - 対応する出勤の無い退勤，経過時間が0以下の組は捨てる（通知のみ）
// - 最後まで閉じなかった出勤は稼働中セッションとして末尾に出力する
func (e *Engine) Pair(logs []NormalizedLog) []SessionDetail {
	ordered := sortLogs(logs)

	byUser := make(map[string][]NormalizedLog)
	for _, l := range ordered {
		k := l.UserKey()
		byUser[k] = append(byUser[k], l)
	}

	var out []SessionDetail
	open := make(map[string]openSlot)

	for _, l := range ordered {
		key := l.UserKey()
		switch l.Type {
		case PunchIn:
			if prev, ok := open[key]; ok {
				e.warn(Warning{Kind: WarnConsecutiveIn, UserKey: key, LogID: prev.in.ID, AtMs: prev.in.TimestampMs})
				out = append(out, e.openSession(prev.in, byUser[key]))
			}
			open[key] = openSlot{in: l}

		case PunchOut:
			slot, ok := open[key]
			if !ok {
				e.warn(Warning{Kind: WarnUnmatchedOut, UserKey: key, LogID: l.ID, AtMs: l.TimestampMs})
				continue
			}
			delete(open, key)
			if l.TimestampMs <= slot.in.TimestampMs {
				e.warn(Warning{Kind: WarnNonPositiveDuration, UserKey: key, LogID: l.ID, AtMs: l.TimestampMs})
				continue
			}
			out = append(out, e.closedSession(slot.in, l, byUser[key]))
		}
	}

	// 残った出勤は開始時刻順に出す
	rest := make([]NormalizedLog, 0, len(open))
	for _, slot := range open {
		rest = append(rest, slot.in)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		if rest[i].TimestampMs != rest[j].TimestampMs {
			return rest[i].TimestampMs < rest[j].TimestampMs
		}
		return rest[i].UserKey() < rest[j].UserKey()
	})
	for _, in := range rest {
		key := in.UserKey()
		e.warn(Warning{Kind: WarnOpenAtEnd, UserKey: key, LogID: in.ID, AtMs: in.TimestampMs})
		out = append(out, e.openSession(in, byUser[key]))
	}
	return out
}

// sortLogs: 使えるものだけを時刻昇順（同時刻は入力順）に並べたコピー
func sortLogs(logs []NormalizedLog) []NormalizedLog {
	ordered := make([]NormalizedLog, 0, len(logs))
	for _, l := range logs {
		if l.Usable() {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TimestampMs < ordered[j].TimestampMs
	})
	return ordered
}

func (e *Engine) openSession(in NormalizedLog, userLogs []NormalizedLog) SessionDetail {
	return SessionDetail{
		UserID:          in.UserID,
		UserName:        in.UserName,
		SiteName:        in.SiteName,
		MachineID:       in.MachineID,
		MachineName:     in.MachineName,
		WorkDescription: resolveDescription(userLogs, in, nil),
		StartMs:         in.TimestampMs,
		Status:          StatusOpen,
		ClockInAt:       e.clock(in.TimestampMs),
	}
}

func (e *Engine) closedSession(in, out NormalizedLog, userLogs []NormalizedLog) SessionDetail {
	mins := int(math.Round(float64(out.TimestampMs-in.TimestampMs) / 60000))
	hours := e.calc.FromMinutes(float64(mins)).Hours
	end := out.TimestampMs

	return SessionDetail{
		UserID:          firstNonEmpty(in.UserID, out.UserID),
		UserName:        firstNonEmpty(in.UserName, out.UserName),
		SiteName:        firstNonEmpty(in.SiteName, out.SiteName),
		MachineID:       firstNonEmpty(in.MachineID, out.MachineID),
		MachineName:     firstNonEmpty(in.MachineName, out.MachineName),
		WorkDescription: resolveDescription(userLogs, in, &out),
		StartMs:         in.TimestampMs,
		EndMs:           &end,
		Status:          StatusClosed,
		ClockInAt:       e.clock(in.TimestampMs),
		ClockOutAt:      e.clock(out.TimestampMs),
		Hours:           &hours,
		DurationMinutes: mins,
	}
}

// resolveDescription: 区間 [in, out] 内の同一ユーザーの打刻から作業内容を重複なしで集める。
// 見つからなければ退勤打刻自身 → 区間より前の直近の作業内容の順に代用する
func resolveDescription(userLogs []NormalizedLog, in NormalizedLog, out *NormalizedLog) string {
	endMs := in.TimestampMs
	if out != nil {
		endMs = out.TimestampMs
	}

	var found []string
	seen := map[string]struct{}{}
	for _, l := range userLogs {
		if l.TimestampMs < in.TimestampMs || l.TimestampMs > endMs {
			continue
		}
		for _, d := range l.WorkDescriptions {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			found = append(found, d)
		}
	}
	if len(found) > 0 {
		return strings.Join(found, descriptionSep)
	}
	if out != nil && len(out.WorkDescriptions) > 0 {
		return strings.Join(dedupe(out.WorkDescriptions), descriptionSep)
	}
	for i := len(userLogs) - 1; i >= 0; i-- {
		l := userLogs[i]
		if l.TimestampMs >= in.TimestampMs || len(l.WorkDescriptions) == 0 {
			continue
		}
		return strings.Join(dedupe(l.WorkDescriptions), descriptionSep)
	}
	return ""
}

func (e *Engine) clock(ms int64) string {
	return time.UnixMilli(ms).In(e.loc).Format(ClockLayout)
}

func (e *Engine) localDate(ms int64) string {
	return time.UnixMilli(ms).In(e.loc).Format(DateLayout)
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
