package worklog

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NameResolver: ID → 表示名（マスタ参照）
type NameResolver interface {
	UserName(keys ...string) (string, bool)
	SiteName(id string) (string, bool)
	MachineName(id string) (string, bool)
}

// Directory: users / sites / machines マスタをまとめたもの
type Directory struct {
	Users    map[string]string
	Sites    map[string]string
	Machines map[string]string
}

func (d Directory) UserName(keys ...string) (string, bool) {
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if v, ok := d.Users[k]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (d Directory) SiteName(id string) (string, bool) {
	v, ok := d.Sites[strings.TrimSpace(id)]
	return v, ok && v != ""
}

func (d Directory) MachineName(id string) (string, bool) {
	v, ok := d.Machines[strings.TrimSpace(id)]
	return v, ok && v != ""
}

// Enrich: 名前の欠けている打刻にマスタの名前を補ったコピーを返す（元の値は変えない）
func Enrich(logs []NormalizedLog, names NameResolver) []NormalizedLog {
	if names == nil {
		return logs
	}
	out := make([]NormalizedLog, len(logs))
	for i, l := range logs {
		if l.UserName == "" {
			if v, ok := names.UserName(l.UserLookupKeys...); ok {
				l.UserName = v
			}
		}
		if l.SiteName == "" && l.SiteID != "" {
			if v, ok := names.SiteName(l.SiteID); ok {
				l.SiteName = v
			}
		}
		if l.MachineName == "" && l.MachineID != "" {
			if v, ok := names.MachineName(l.MachineID); ok {
				l.MachineName = v
			}
		}
		out[i] = l
	}
	return out
}

// newCollator: 日本語照合順。Collator は並行利用できないので呼び出しごとに作る
func newCollator() *collate.Collator {
	return collate.New(language.Japanese)
}
