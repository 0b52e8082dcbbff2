package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GENBA-backend/internal/timecalc"
)

func sitePunch(id string, typ PunchType, ms int64, user, site string) NormalizedLog {
	l := punch(id, typ, ms, user)
	l.SiteName = site
	return l
}

func TestSummarizeMonth_GroupsByLocalDate(t *testing.T) {
	e := testEngine(nil).WithCalc(timecalc.Config{Enabled: false})
	logs := []NormalizedLog{
		// 4/2 00:30 JST は UTC だと 4/1 だが，現場の日付は 4/2
		sitePunch("3", PunchIn, at(2, 0, 30), "u1", "B現場"),
		sitePunch("4", PunchOut, at(2, 2, 30), "u1", "B現場"),
		sitePunch("1", PunchIn, at(1, 8, 0), "u1", "A現場"),
		sitePunch("2", PunchOut, at(1, 9, 0), "u1", "A現場"),
		sitePunch("5", PunchIn, at(1, 10, 0), "u2", ""),
	}

	got := e.SummarizeMonth(logs)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-04-01", got[0].Date)
	assert.Equal(t, []string{"A現場"}, got[0].Sites)
	assert.Equal(t, 3, got[0].Punches)
	assert.Equal(t, 1, got[0].Sessions)
	assert.Equal(t, 1.0, got[0].Hours)

	assert.Equal(t, "2025-04-02", got[1].Date)
	assert.Equal(t, []string{"B現場"}, got[1].Sites)
	assert.Equal(t, 2.0, got[1].Hours)

	for _, d := range got {
		assert.LessOrEqual(t, d.Sessions, d.Punches)
		assert.GreaterOrEqual(t, d.Hours, 0.0)
	}
}

func TestSummarizeMonth_DayLevelRounding(t *testing.T) {
	cfg := timecalc.Config{Enabled: true, RoundMinutes: 15, BreakMinutes: 90, RoundMode: timecalc.RoundNearest}
	e := testEngine(nil).WithCalc(cfg)

	logs := []NormalizedLog{
		punch("1", PunchIn, at(3, 8, 0), "u1"),
		punch("2", PunchOut, at(3, 8, 50), "u1"),
		punch("3", PunchIn, at(3, 13, 0), "u1"),
		punch("4", PunchOut, at(3, 13, 40), "u1"),
	}
	got := e.SummarizeMonth(logs)
	require.Len(t, got, 1)
	assert.Equal(t, cfg.FromMinutes(90).Hours, got[0].Hours)
	assert.Equal(t, 0.0, got[0].Hours)
	assert.Equal(t, 2, got[0].Sessions)
}

func TestSummarizeMonth_DayLevelDiffersFromSessionLevel(t *testing.T) {
	cfg := timecalc.Config{Enabled: true, RoundMinutes: 15, BreakMinutes: 0, RoundMode: timecalc.RoundUp}
	e := testEngine(nil).WithCalc(cfg)
	logs := []NormalizedLog{
		punch("1", PunchIn, at(3, 8, 0), "u1"),
		punch("2", PunchOut, at(3, 8, 5), "u1"),
		punch("3", PunchIn, at(3, 9, 0), "u1"),
		punch("4", PunchOut, at(3, 9, 5), "u1"),
	}
	got := e.SummarizeMonth(logs)
	require.Len(t, got, 1)
	// 10分 → 15分。セッション単位なら 15+15=30分になる
	assert.Equal(t, 0.25, got[0].Hours)
}

func TestSummarizeMonth_Empty(t *testing.T) {
	got := testEngine(nil).SummarizeMonth(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSummarizeMonth_SortedByDate(t *testing.T) {
	var logs []NormalizedLog
	for _, d := range []int{20, 3, 11} {
		logs = append(logs, punch("x", PunchIn, time.Date(2025, time.April, d, 9, 0, 0, 0, jst).UnixMilli(), "u"))
	}
	got := testEngine(nil).SummarizeMonth(logs)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2025-04-03", "2025-04-11", "2025-04-20"}, []string{got[0].Date, got[1].Date, got[2].Date})
	assert.Equal(t, 0, got[0].Sessions)
	assert.Equal(t, []string{}, got[0].Sites)
}
