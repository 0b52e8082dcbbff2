// 勤務実績帳票の出力（CSV / Excel）
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"GENBA-backend/internal/worklog"
)

type Encoding string

const (
	// Excel でそのまま開けるよう BOM を付ける
	UTF8BOM Encoding = "utf8bom"
	// Windows の「ANSI（CP932）」相当
	ShiftJIS Encoding = "sjis"
)

const SheetName = "勤務実績"

var Header = []string{"日付", "作業員", "現場", "機械", "作業内容", "出勤", "退勤", "時間"}

// ParseEncoding: 空文字は UTF8BOM
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8", string(UTF8BOM):
		return UTF8BOM, nil
	case string(ShiftJIS), "shift_jis", "cp932":
		return ShiftJIS, nil
	}
	return "", fmt.Errorf("unsupported csv encoding: %q", s)
}

func WriteCSV(w io.Writer, rows []worklog.SessionReportRow, enc Encoding) error {
	var e *encoding.Encoder
	switch enc {
	case ShiftJIS:
		// CP932 に無い文字は置換して出力を止めない
		e = encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	default:
		e = unicode.UTF8BOM.NewEncoder()
	}
	tw := transform.NewWriter(w, e)
	cw := csv.NewWriter(tw)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

func WriteXLSX(w io.Writer, rows []worklog.SessionReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	header := make([]any, 0, len(Header))
	for _, h := range Header {
		header = append(header, h)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", "H1", bold); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		hours, _ := hoursDecimal(r.Hours).Float64()
		values := []any{
			r.Date, r.UserName, r.SiteName, r.MachineName, r.WorkDescription,
			r.ClockInAt, r.ClockOutAt, hours,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "E", "E", 40); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "F", "G", 26); err != nil {
		return err
	}
	return f.Write(w)
}

func record(r worklog.SessionReportRow) []string {
	return []string{
		r.Date,
		r.UserName,
		r.SiteName,
		r.MachineName,
		r.WorkDescription,
		r.ClockInAt,
		r.ClockOutAt,
		FormatHours(r.Hours),
	}
}

// FormatHours: 小数2桁固定（7.5 → "7.50"）
func FormatHours(h float64) string {
	return hoursDecimal(h).StringFixed(2)
}

func hoursDecimal(h float64) decimal.Decimal {
	return decimal.NewFromFloat(h).Round(2)
}
