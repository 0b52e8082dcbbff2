package worklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPunch(id string, typ PunchType, ms int64, user, site, machineID, machineName string) NormalizedLog {
	l := punch(id, typ, ms, user)
	l.UserName = user + "さん"
	l.SiteName = site
	l.MachineID = machineID
	l.MachineName = machineName
	return l
}

func TestBuildReport_OrderingUsesJapaneseCollation(t *testing.T) {
	logs := []NormalizedLog{
		fullPunch("1", PunchIn, at(1, 8, 0), "u9", "Z現場", "m1", "Z"),
		fullPunch("2", PunchOut, at(1, 12, 0), "u9", "Z現場", "m1", "Z"),
		fullPunch("3", PunchIn, at(1, 8, 0), "u1", "A現場", "mb", "B"),
		fullPunch("4", PunchOut, at(1, 10, 0), "u1", "A現場", "mb", "B"),
		fullPunch("5", PunchIn, at(1, 13, 0), "u1", "A現場", "ma", "A"),
		fullPunch("6", PunchOut, at(1, 15, 0), "u1", "A現場", "ma", "A"),
	}

	rows := testEngine(nil).BuildReport(logs)
	require.Len(t, rows, 3)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.SiteName+"/"+r.MachineName)
	}
	assert.Equal(t, []string{"A現場/A", "A現場/B", "Z現場/Z"}, got)
}

func TestBuildReport_OnlyClosedSessions(t *testing.T) {
	logs := []NormalizedLog{
		fullPunch("1", PunchIn, at(1, 8, 0), "u1", "A現場", "m1", ""),
		fullPunch("2", PunchOut, at(1, 17, 0), "u1", "A現場", "m1", ""),
		fullPunch("3", PunchIn, at(1, 18, 0), "u1", "A現場", "m1", ""),
	}
	rows := testEngine(nil).BuildReport(logs)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "2025-04-01", r.Date)
	assert.Equal(t, "u1さん", r.UserName)
	assert.Equal(t, "m1", r.MachineName, "machine id is used when the name is missing")
	assert.Equal(t, "2025-04-01T08:00:00+09:00", r.ClockInAt)
	assert.Equal(t, "2025-04-01T17:00:00+09:00", r.ClockOutAt)
	assert.Equal(t, 7.5, r.Hours)
}

func TestBuildReport_SecondsAreTruncatedToMinute(t *testing.T) {
	in := punch("1", PunchIn, at(1, 8, 0)+42_000, "u1")
	out := punch("2", PunchOut, at(1, 9, 0)+59_000, "u1")
	rows := testEngine(nil).BuildReport([]NormalizedLog{in, out})
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-04-01T08:00:00+09:00", rows[0].ClockInAt)
	assert.Equal(t, "2025-04-01T09:00:00+09:00", rows[0].ClockOutAt)
}

func TestBuildReport_OvernightSessionKeepsOutDate(t *testing.T) {
	rows := testEngine(nil).BuildReport([]NormalizedLog{
		punch("1", PunchIn, at(1, 22, 0), "u1"),
		punch("2", PunchOut, at(2, 6, 0), "u1"),
	})
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-04-01", rows[0].Date)
	assert.Equal(t, "2025-04-02T06:00:00+09:00", rows[0].ClockOutAt)
}

func TestBuildReportFiltered(t *testing.T) {
	logs := []NormalizedLog{
		fullPunch("1", PunchIn, at(1, 8, 0), "u1", "A現場", "m1", "ユンボ"),
		fullPunch("2", PunchOut, at(1, 9, 0), "u1", "A現場", "m1", "ユンボ"),
		fullPunch("3", PunchIn, at(1, 8, 0), "u2", "B現場", "m2", "クレーン"),
		fullPunch("4", PunchOut, at(1, 9, 0), "u2", "B現場", "m2", "クレーン"),
	}
	e := testEngine(nil)

	assert.Len(t, e.BuildReportFiltered(logs, Filters{}), 2)
	assert.Len(t, e.BuildReportFiltered(logs, Filters{SiteName: " A現場 "}), 1)
	assert.Len(t, e.BuildReportFiltered(logs, Filters{MachineID: "m2"}), 1)
	assert.Len(t, e.BuildReportFiltered(logs, Filters{UserKey: "u2", SiteName: "A現場"}), 0)
}

func TestEnrich_FillsMissingNames(t *testing.T) {
	dir := Directory{
		Users:    map[string]string{"u1": "山田 太郎"},
		Sites:    map[string]string{"s1": "A現場"},
		Machines: map[string]string{"m1": "バックホウ"},
	}
	l := punch("1", PunchIn, at(1, 8, 0), "u1")
	l.UserLookupKeys = []string{"u1"}
	l.SiteID = "s1"
	l.MachineID = "m1"
	named := punch("2", PunchIn, at(1, 8, 0), "u1")
	named.UserName = "記録上の名前"
	named.UserLookupKeys = []string{"u1"}

	got := Enrich([]NormalizedLog{l, named}, dir)
	assert.Equal(t, "山田 太郎", got[0].UserName)
	assert.Equal(t, "A現場", got[0].SiteName)
	assert.Equal(t, "バックホウ", got[0].MachineName)
	assert.Equal(t, "記録上の名前", got[1].UserName)
	assert.Equal(t, "", l.UserName, "input is not modified")
}
