// 労働時間の丸め・休憩控除ポリシー
package timecalc

import (
	"fmt"
	"math"
	"strings"
)

type RoundMode string

const (
	RoundNearest RoundMode = "nearest"
	RoundUp      RoundMode = "up"
	RoundDown    RoundMode = "down"
)

const (
	DefaultRoundMinutes = 15
	DefaultBreakMinutes = 90
	DefaultRoundMode    = RoundNearest
)

// Config はプロセス全体で共有する計算パラメータ（起動時に読み込み，以降は読み取り専用）
type Config struct {
	Enabled      bool      `yaml:"enabled" json:"enabled"`
	RoundMinutes int       `yaml:"round_minutes" json:"round_minutes"`
	BreakMinutes int       `yaml:"break_minutes" json:"break_minutes"`
	RoundMode    RoundMode `yaml:"round_mode" json:"round_mode"`
}

// Override は1回の呼び出しだけ差し替える項目。nil の項目は元の値のまま
type Override struct {
	Enabled      *bool
	RoundMinutes *int
	BreakMinutes *int
	RoundMode    *RoundMode
}

type Result struct {
	Minutes float64 `json:"minutes"`
	Hours   float64 `json:"hours"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		RoundMinutes: DefaultRoundMinutes,
		BreakMinutes: DefaultBreakMinutes,
		RoundMode:    DefaultRoundMode,
	}
}

// ParseRoundMode: 大文字小文字・前後空白は無視。空文字は nearest
func ParseRoundMode(s string) (RoundMode, error) {
	switch RoundMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoundNearest:
		return RoundNearest, nil
	case RoundUp:
		return RoundUp, nil
	case RoundDown:
		return RoundDown, nil
	}
	return "", fmt.Errorf("round_mode must be nearest, up or down: %q", s)
}

// With: o で指定された項目だけを上書きしたコピーを返す
func (c Config) With(o Override) Config {
	out := c
	if o.Enabled != nil {
		out.Enabled = *o.Enabled
	}
	if o.RoundMinutes != nil {
		out.RoundMinutes = *o.RoundMinutes
	}
	if o.BreakMinutes != nil {
		out.BreakMinutes = *o.BreakMinutes
	}
	if o.RoundMode != nil {
		out.RoundMode = *o.RoundMode
	}
	return out
}

// FromMinutes: 経過分 → 休憩控除 → 丸め → 時間
func (c Config) FromMinutes(raw float64) Result {
	if !c.Enabled {
		return Result{Minutes: raw, Hours: raw / 60}
	}
	afterBreak := math.Max(0, raw-float64(c.BreakMinutes))
	rounded := RoundToStep(afterBreak, c.RoundMinutes, c.RoundMode)
	return Result{Minutes: rounded, Hours: rounded / 60}
}

// FromHours: 時間を分に直してから FromMinutes と同じ経路で計算する
func (c Config) FromHours(hours float64) Result {
	return c.FromMinutes(math.Round(hours * 60))
}

// RoundToStep: step <= 0 のときはそのまま返す。nearest は四捨五入（0から遠い側）
func RoundToStep(minutes float64, step int, mode RoundMode) float64 {
	if step <= 0 {
		return minutes
	}
	s := float64(step)
	q := minutes / s
	switch mode {
	case RoundUp:
		q = math.Ceil(q)
	case RoundDown:
		q = math.Floor(q)
	default:
		q = math.Round(q)
	}
	return q * s
}
