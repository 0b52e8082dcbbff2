package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"GENBA-backend/internal/attendance"
	"GENBA-backend/internal/platform/db"
	"GENBA-backend/internal/timecalc"
)

var (
	cfgPath string

	calcFlag  string
	roundFlag int
	breakFlag int
	modeFlag  string
)

// SetVersion: main から -ldflags の値を渡す
func SetVersion(version, commit string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "genbactl",
	Short: "GENBA 打刻ログの集計・帳票出力",
	Long: `genbactl - サーバーと同じ設定ファイル・DB を使って集計する運用ツール

月次カレンダー・日別セッション・勤務実績帳票（CSV / Excel）・作業時間集計を
API を通さずに出力する。`,
	SilenceUsage: true,
}

func init() {
	def := os.Getenv("GENBA_CONFIG")
	if def == "" {
		def = db.DefaultConfigPath
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", def, "path to config.yaml")

	// 1回分だけ time_calc を上書き
	pf.StringVar(&calcFlag, "time-calc", "", "override time_calc.enabled (true|false)")
	pf.IntVar(&roundFlag, "round-minutes", 0, "override time_calc.round_minutes")
	pf.IntVar(&breakFlag, "break-minutes", 0, "override time_calc.break_minutes")
	pf.StringVar(&modeFlag, "round-mode", "", "override time_calc.round_mode (nearest|up|down)")
}

// openService: テストでは差し替える
var openService = func(path string) (*attendance.Service, func(), error) {
	cfg, err := db.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	opts, err := attendance.OptionsFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return attendance.NewService(conn, opts), closer(conn), nil
}

func closer(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}

func override(cmd *cobra.Command) (timecalc.Override, error) {
	var o timecalc.Override
	f := cmd.Flags()
	if f.Changed("time-calc") {
		b, err := strconv.ParseBool(calcFlag)
		if err != nil {
			return o, fmt.Errorf("--time-calc must be true or false")
		}
		o.Enabled = &b
	}
	if f.Changed("round-minutes") {
		v := roundFlag
		o.RoundMinutes = &v
	}
	if f.Changed("break-minutes") {
		if breakFlag < 0 {
			return o, fmt.Errorf("--break-minutes must be >= 0")
		}
		v := breakFlag
		o.BreakMinutes = &v
	}
	if f.Changed("round-mode") {
		m, err := timecalc.ParseRoundMode(modeFlag)
		if err != nil {
			return o, err
		}
		o.RoundMode = &m
	}
	return o, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
