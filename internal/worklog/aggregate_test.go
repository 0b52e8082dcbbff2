package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GENBA-backend/internal/timecalc"
)

func tp(day, hour, min int) *time.Time {
	t := time.Date(2025, time.April, day, hour, min, 0, 0, jst)
	return &t
}

func fp(v float64) *float64 { return &v }

func TestAggregateByMonth(t *testing.T) {
	cfg := timecalc.Config{Enabled: true, RoundMinutes: 15, BreakMinutes: 60, RoundMode: timecalc.RoundNearest}
	e := testEngine(nil).WithCalc(cfg)
	dir := Directory{Users: map[string]string{"u1": "やまだ", "u2": "あべ"}}

	sessions := []WorkSession{
		{UserKey: "u1", SiteName: "A現場", MachineName: "ユンボ", StartedAt: tp(1, 8, 0), EndedAt: tp(1, 12, 0)},
		{UserKey: "u1", SiteName: "A現場", MachineID: "m9", StartedAt: tp(1, 13, 0), DurationMinutes: fp(200)},
		{UserKey: "u1", SiteName: "A現場", MachineName: "ユンボ", StartedAt: tp(2, 8, 0), EndedAt: tp(2, 9, 0)},
		{UserKey: "u2", SiteName: "B現場", StartedAt: tp(1, 8, 0), EndedAt: tp(1, 10, 0)},
		// 時刻が取れないものは無視
		{UserKey: "u2", SiteName: "B現場"},
	}

	got := e.AggregateByMonth(sessions, Filters{}, dir)
	require.Len(t, got, 2)

	// あべ < やまだ
	assert.Equal(t, "u2", got[0].UserKey)
	assert.Equal(t, "あべ", got[0].UserName)
	assert.Equal(t, "u1", got[1].UserKey)

	u1 := got[1]
	require.Len(t, u1.Days, 2)
	day1 := u1.Days[0]
	assert.Equal(t, "2025-04-01", day1.Day)
	assert.Equal(t, 440.0, day1.RawMins)
	// 440 - 60 = 380 → 375
	assert.Equal(t, 375.0, day1.TotalMins)
	assert.Equal(t, 6.25, day1.Hours)
	assert.Equal(t, []BreakdownItem{
		{Label: "A現場 / m9", Minutes: 200},
		{Label: "A現場 / ユンボ", Minutes: 240},
	}, day1.Breakdown)

	assert.Equal(t, "2025-04-02", u1.Days[1].Day)
	assert.Equal(t, 0.0, u1.Days[1].TotalMins)
}

func TestAggregateByMonth_Filters(t *testing.T) {
	e := testEngine(nil).WithCalc(timecalc.Config{Enabled: false})
	sessions := []WorkSession{
		{UserKey: "u1", SiteName: "A現場", MachineID: "m1", StartedAt: tp(1, 8, 0), DurationMinutes: fp(60)},
		{UserKey: "u1", SiteName: "B現場", MachineID: "m1", StartedAt: tp(1, 9, 0), DurationMinutes: fp(30)},
		{UserKey: "u2", SiteName: "A現場", MachineID: "m2", StartedAt: tp(1, 8, 0), DurationMinutes: fp(45)},
	}

	got := e.AggregateByMonth(sessions, Filters{SiteName: "A現場 ", MachineID: "m1"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].Days[0].TotalMins)

	got = e.AggregateByMonth(sessions, Filters{UserKey: "u2"}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].UserName, "raw key is used when the user is not registered")

	assert.Empty(t, e.AggregateByMonth(sessions, Filters{SiteName: "C現場"}, nil))
}

func TestAggregateByMonth_UnregisteredUser(t *testing.T) {
	e := testEngine(nil)
	got := e.AggregateByMonth([]WorkSession{
		{UserKey: "", StartedAt: tp(1, 8, 0), DurationMinutes: fp(30)},
	}, Filters{}, Directory{})
	require.Len(t, got, 1)
	assert.Equal(t, UnregisteredTag, got[0].UserName)
	assert.Equal(t, "未設定 / 未設定", got[0].Days[0].Breakdown[0].Label)
}

func TestAggregateByMonth_NegativeDurationFallsBackToTimestamps(t *testing.T) {
	e := testEngine(nil).WithCalc(timecalc.Config{Enabled: false})
	got := e.AggregateByMonth([]WorkSession{
		{UserKey: "u1", StartedAt: tp(1, 8, 0), EndedAt: tp(1, 8, 30), DurationMinutes: fp(-5)},
	}, Filters{}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 30.0, got[0].Days[0].RawMins)
}
