package worklog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GENBA-backend/internal/timecalc"
)

var jst = FixedZone(9 * 60)

// at: 2025-04-01 の JST 時刻を epoch ms で
func at(day, hour, min int) int64 {
	return time.Date(2025, time.April, day, hour, min, 0, 0, jst).UnixMilli()
}

func punch(id string, typ PunchType, ms int64, user string, desc ...string) NormalizedLog {
	return NormalizedLog{
		ID:               id,
		Type:             typ,
		TimestampMs:      ms,
		HasTimestamp:     true,
		UserID:           user,
		WorkDescriptions: desc,
	}
}

type warnings []Warning

func (w *warnings) collect(x Warning) { *w = append(*w, x) }

func (w warnings) kinds() []WarningKind {
	out := make([]WarningKind, 0, len(w))
	for _, x := range w {
		out = append(out, x.Kind)
	}
	return out
}

func testEngine(w *warnings) *Engine {
	e := NewEngine(timecalc.DefaultConfig(), jst)
	if w == nil {
		return e.WithWarn(nil)
	}
	return e.WithWarn(w.collect)
}

func TestPair_WellFormedPairs(t *testing.T) {
	var w warnings
	logs := []NormalizedLog{
		punch("1", PunchIn, at(1, 8, 0), "u1", "掘削"),
		punch("2", PunchIn, at(1, 8, 5), "u2"),
		punch("3", PunchOut, at(1, 17, 0), "u1"),
		punch("4", PunchOut, at(1, 17, 30), "u2", "運搬"),
	}

	got := testEngine(&w).Pair(logs)

	require.Len(t, got, len(logs)/2)
	assert.Empty(t, w)
	for _, s := range got {
		assert.Equal(t, StatusClosed, s.Status)
		require.NotNil(t, s.EndMs)
		assert.Greater(t, *s.EndMs, s.StartMs)
		require.NotNil(t, s.Hours)
	}

	u1 := got[0]
	assert.Equal(t, "u1", u1.UserID)
	assert.Equal(t, "08:00", u1.ClockInAt)
	assert.Equal(t, "17:00", u1.ClockOutAt)
	assert.Equal(t, 540, u1.DurationMinutes)
	// 540 - 90 = 450 → 7.5h
	assert.Equal(t, 7.5, *u1.Hours)
	assert.Equal(t, "掘削", u1.WorkDescription)

	assert.Equal(t, "運搬", got[1].WorkDescription)
}

func TestPair_SortsByTimestampStably(t *testing.T) {
	logs := []NormalizedLog{
		punch("out", PunchOut, at(1, 12, 0), "u1"),
		punch("in", PunchIn, at(1, 9, 0), "u1"),
	}
	got := testEngine(nil).Pair(logs)
	require.Len(t, got, 1)
	assert.Equal(t, at(1, 9, 0), got[0].StartMs)
}

func TestPair_Idempotent(t *testing.T) {
	logs := []NormalizedLog{
		punch("1", PunchIn, at(1, 8, 0), "u1", "a"),
		punch("2", PunchIn, at(1, 9, 0), "u1", "b"),
		punch("3", PunchOut, at(1, 10, 0), "u2"),
		punch("4", PunchOut, at(1, 12, 0), "u1"),
		punch("5", PunchIn, at(1, 13, 0), "u2"),
	}
	e := testEngine(nil)
	assert.Equal(t, e.Pair(logs), e.Pair(logs))
}

func TestPair_UnmatchedOutIsDropped(t *testing.T) {
	var w warnings
	got := testEngine(&w).Pair([]NormalizedLog{punch("1", PunchOut, at(1, 17, 0), "u1")})

	assert.Empty(t, got)
	assert.Equal(t, []WarningKind{WarnUnmatchedOut}, w.kinds())
}

func TestPair_ConsecutiveInSurfacesPriorAsOpen(t *testing.T) {
	var w warnings
	t1, t2 := at(1, 8, 0), at(1, 9, 0)
	got := testEngine(&w).Pair([]NormalizedLog{
		punch("1", PunchIn, t1, "A"),
		punch("2", PunchIn, t2, "A"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, StatusOpen, got[0].Status)
	assert.Equal(t, t1, got[0].StartMs)
	assert.Nil(t, got[0].EndMs)
	assert.Nil(t, got[0].Hours)

	// 後の出勤は保留のまま最後まで残り，稼働中として出る
	assert.Equal(t, StatusOpen, got[1].Status)
	assert.Equal(t, t2, got[1].StartMs)
	assert.Equal(t, []WarningKind{WarnConsecutiveIn, WarnOpenAtEnd}, w.kinds())
}

func TestPair_ConsecutiveInThenOutClosesLatest(t *testing.T) {
	got := testEngine(nil).Pair([]NormalizedLog{
		punch("1", PunchIn, at(1, 8, 0), "A"),
		punch("2", PunchIn, at(1, 9, 0), "A"),
		punch("3", PunchOut, at(1, 12, 0), "A"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, StatusOpen, got[0].Status)
	assert.Equal(t, StatusClosed, got[1].Status)
	assert.Equal(t, at(1, 9, 0), got[1].StartMs)
	assert.Equal(t, 180, got[1].DurationMinutes)
}

func TestPair_NonPositiveDurationIsDroppedAndSlotCleared(t *testing.T) {
	var w warnings
	same := at(1, 8, 0)
	got := testEngine(&w).Pair([]NormalizedLog{
		punch("1", PunchIn, same, "A"),
		punch("2", PunchOut, same, "A"),
		punch("3", PunchOut, at(1, 9, 0), "A"),
	})

	assert.Empty(t, got)
	assert.Equal(t, []WarningKind{WarnNonPositiveDuration, WarnUnmatchedOut}, w.kinds())
}

func TestPair_UnusableLogsAreSkipped(t *testing.T) {
	bad := punch("x", PunchIn, 0, "A")
	bad.HasTimestamp = false
	got := testEngine(nil).Pair([]NormalizedLog{
		bad,
		punch("1", PunchIn, at(1, 8, 0), "A"),
		punch("2", PunchOut, at(1, 9, 0), "A"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, at(1, 8, 0), got[0].StartMs)
}

func TestPair_UnknownUserBucketMergesAnonymousPunches(t *testing.T) {
	anonIn := punch("1", PunchIn, at(1, 8, 0), "")
	anonOut := punch("2", PunchOut, at(1, 9, 0), "")
	got := testEngine(nil).Pair([]NormalizedLog{anonIn, anonOut})

	require.Len(t, got, 1)
	assert.Equal(t, StatusClosed, got[0].Status)
	assert.Equal(t, UnknownUserKey, sessionUserKey(got[0]))
}

func TestPair_UserNameIsKeyWhenNoID(t *testing.T) {
	in := punch("1", PunchIn, at(1, 8, 0), "")
	in.UserName = "山田"
	out := punch("2", PunchOut, at(1, 9, 0), "")
	out.UserName = "山田"
	other := punch("3", PunchOut, at(1, 9, 30), "")
	other.UserName = "佐藤"

	got := testEngine(nil).Pair([]NormalizedLog{in, out, other})
	require.Len(t, got, 1)
	assert.Equal(t, "山田", got[0].UserName)
}

func TestPair_WorkDescriptionResolution(t *testing.T) {
	t.Run("collects distinct descriptions inside the window", func(t *testing.T) {
		got := testEngine(nil).Pair([]NormalizedLog{
			punch("1", PunchIn, at(1, 8, 0), "A", "掘削", "運搬"),
			punch("2", PunchIn, at(1, 8, 0), "B", "他人の作業"),
			punch("3", PunchOut, at(1, 12, 0), "A", "運搬", "清掃"),
		})
		require.Len(t, got, 2)
		assert.Equal(t, "掘削、運搬、清掃", got[0].WorkDescription)
	})

	t.Run("falls back to most recent prior description", func(t *testing.T) {
		got := testEngine(nil).Pair([]NormalizedLog{
			punch("0", PunchOut, at(1, 7, 0), "A", "前日の続き"),
			punch("1", PunchIn, at(1, 8, 0), "A"),
			punch("2", PunchOut, at(1, 12, 0), "A"),
		})
		require.Len(t, got, 1)
		assert.Equal(t, "前日の続き", got[0].WorkDescription)
	})

	t.Run("empty when nothing is known", func(t *testing.T) {
		got := testEngine(nil).Pair([]NormalizedLog{
			punch("1", PunchIn, at(1, 8, 0), "A"),
			punch("2", PunchOut, at(1, 12, 0), "A"),
		})
		require.Len(t, got, 1)
		assert.Equal(t, "", got[0].WorkDescription)
	})
}

func TestPair_ContextFallsBackToOut(t *testing.T) {
	in := punch("1", PunchIn, at(1, 8, 0), "A")
	out := punch("2", PunchOut, at(1, 12, 0), "A")
	out.SiteName = "A現場"
	out.MachineID = "m-1"

	got := testEngine(nil).Pair([]NormalizedLog{in, out})
	require.Len(t, got, 1)
	assert.Equal(t, "A現場", got[0].SiteName)
	assert.Equal(t, "m-1", got[0].MachineID)
}

func TestPair_UsesInjectedCalc(t *testing.T) {
	off := timecalc.Config{Enabled: false}
	got := testEngine(nil).WithCalc(off).Pair([]NormalizedLog{
		punch("1", PunchIn, at(1, 8, 0), "A"),
		punch("2", PunchOut, at(1, 9, 30), "A"),
	})
	require.Len(t, got, 1)
	assert.Equal(t, 1.5, *got[0].Hours)
}
