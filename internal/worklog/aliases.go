package worklog

// concept: 取得元ごとに名前の違うフィールドをまとめる論理項目
type concept int

const (
	conceptType concept = iota
	conceptTimestamp
	conceptUserID
	conceptUserName
	conceptMachineID
	conceptMachineName
	conceptSiteID
	conceptSiteName
	conceptWork
)

// fieldAliases: 先頭から順に試し，最初に空でない値を採用する。
// 新しい取得元に対応するときはここに追加するだけでよい
var fieldAliases = map[concept][]string{
	conceptType:        {"type", "Type", "種別", "打刻種別", "kind", "action"},
	conceptTimestamp:   {"timestamp", "timestampMs", "打刻日時", "日時", "punched_at", "time", "created_at", "createdAt"},
	conceptUserID:      {"user_id", "userId", "ユーザーID", "作業員ID", "worker_id", "workerId", "user"},
	conceptUserName:    {"user_name", "userName", "ユーザー名", "作業員名", "氏名", "worker_name", "name"},
	conceptMachineID:   {"machine_id", "machineId", "機械ID", "重機ID", "machine"},
	conceptMachineName: {"machine_name", "machineName", "機械名", "重機名"},
	conceptSiteID:      {"site_id", "siteId", "現場ID", "site"},
	conceptSiteName:    {"site_name", "siteName", "現場名", "現場"},
	conceptWork:        {"work_description", "workDescription", "作業内容", "work", "作業", "descriptions"},
}

// punchTypeAliases: 小文字化した値 → 種別
var punchTypeAliases = map[string]PunchType{
	"in":        PunchIn,
	"clock_in":  PunchIn,
	"clockin":   PunchIn,
	"start":     PunchIn,
	"出勤":        PunchIn,
	"開始":        PunchIn,
	"out":       PunchOut,
	"clock_out": PunchOut,
	"clockout":  PunchOut,
	"end":       PunchOut,
	"退勤":        PunchOut,
	"終了":        PunchOut,
}

// リンク型フィールド（{"id":..,"name":..}）から値を取り出すときのキー
var (
	linkTextKeys = []string{"text", "name", "value", "title", "id"}
	linkIDKeys   = []string{"id", "record_id", "value", "text"}
)

// workDelimiters: 作業内容の区切り文字
const workDelimiters = "\n,;/"
