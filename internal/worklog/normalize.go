package worklog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// 文字列の日時として受け付ける書式（オフセット無しは現場のタイムゾーンとして解釈）
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
}

type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// NormalizeAll: 使えないレコード（時刻・種別が解釈できない）は黙って除外する
func (n *Normalizer) NormalizeAll(raws []RawRecord) []NormalizedLog {
	out := make([]NormalizedLog, 0, len(raws))
	for _, r := range raws {
		l := n.Normalize(r)
		if !l.Usable() {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Normalize: 1レコードを正規化する。失敗しても panic せず，Usable()=false の値を返す
func (n *Normalizer) Normalize(raw RawRecord) NormalizedLog {
	f := raw.Fields
	l := NormalizedLog{ID: raw.ID}

	if v, ok := lookup(f, conceptType); ok {
		l.Type = ParsePunchType(textOf(v))
	}
	if v, ok := lookup(f, conceptTimestamp); ok {
		l.TimestampMs, l.HasTimestamp = n.parseTimestamp(v)
	}

	l.UserID = idOf(f, conceptUserID)
	l.UserName = nameOf(f, conceptUserName, conceptUserID)
	l.MachineID = idOf(f, conceptMachineID)
	l.MachineName = nameOf(f, conceptMachineName, conceptMachineID)
	l.SiteID = idOf(f, conceptSiteID)
	l.SiteName = nameOf(f, conceptSiteName, conceptSiteID)

	if v, ok := lookup(f, conceptWork); ok {
		l.WorkDescriptions = splitDescriptions(v)
	}
	l.UserLookupKeys = lookupKeys(l.UserID, l.UserName)
	return l
}

// lookup: 別名を順に試して最初の空でない値
func lookup(fields map[string]any, c concept) (any, bool) {
	for _, key := range fieldAliases[c] {
		v, ok := fields[key]
		if !ok || isEmpty(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func idOf(fields map[string]any, c concept) string {
	v, ok := lookup(fields, c)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case map[string]any:
		return firstKey(t, linkIDKeys)
	case []any:
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				if s := firstKey(m, linkIDKeys); s != "" {
					return s
				}
				continue
			}
			if s := textOf(e); s != "" {
				return s
			}
		}
		return ""
	}
	return textOf(v)
}

// nameOf: 名前フィールドが無ければ，ID側がリンク型ならその name を使う
func nameOf(fields map[string]any, name, link concept) string {
	if v, ok := lookup(fields, name); ok {
		return textOf(v)
	}
	v, ok := lookup(fields, link)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case map[string]any:
		return firstKey(t, []string{"name", "text", "title"})
	case []any:
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				if s := firstKey(m, []string{"name", "text", "title"}); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// ParsePunchType: IN / OUT とその別名。解釈できなければ空文字
func ParsePunchType(s string) PunchType {
	if t, ok := punchTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ""
}

func (n *Normalizer) parseTimestamp(v any) (int64, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli(), !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0, false
		}
		return t.UnixMilli(), true
	case float64:
		return finiteMs(t)
	case float32:
		return finiteMs(float64(t))
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finiteMs(f)
	case string:
		return n.parseTimestampString(t)
	case map[string]any:
		if inner, ok := t["value"]; ok {
			return n.parseTimestamp(inner)
		}
	case []any:
		if len(t) > 0 {
			return n.parseTimestamp(t[0])
		}
	}
	return 0, false
}

func (n *Normalizer) parseTimestampString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return finiteMs(f)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return ts.UnixMilli(), true
		}
	}
	return 0, false
}

func finiteMs(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

// splitDescriptions: 改行・カンマ・セミコロン・スラッシュで分割し，空要素を捨てる（順序は保持）
func splitDescriptions(v any) []string {
	var parts []string
	var walk func(any)
	walk = func(x any) {
		switch t := x.(type) {
		case []any:
			for _, e := range t {
				walk(e)
			}
		case []string:
			for _, e := range t {
				walk(e)
			}
		default:
			s := textOf(t)
			if s == "" {
				return
			}
			for _, seg := range strings.FieldsFunc(s, func(r rune) bool {
				return strings.ContainsRune(workDelimiters, r)
			}) {
				if seg = strings.TrimSpace(seg); seg != "" {
					parts = append(parts, seg)
				}
			}
		}
	}
	walk(v)
	return parts
}

// textOf: 値を表示用の文字列にする。配列は最初の空でない要素
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case map[string]any:
		return firstKey(t, linkTextKeys)
	case []any:
		for _, e := range t {
			if s := textOf(e); s != "" {
				return s
			}
		}
	case []string:
		for _, e := range t {
			if s := strings.TrimSpace(e); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstKey(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s := textOf(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// lookupKeys: ID・名前とその表記揺れ（小文字化）。重複なし・出現順
func lookupKeys(values ...string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		add(v)
		add(strings.ToLower(v))
	}
	return out
}
