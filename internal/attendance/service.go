package attendance

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"GENBA-backend/internal/platform/db"
	"GENBA-backend/internal/timecalc"
	"GENBA-backend/internal/worklog"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
	CodeUnavailable     Code = "UNAVAILABLE"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string         { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError     { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError    { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError    { return &APIError{Code: CodeInternal, Message: msg} }
func ErrUnavailable(msg string) *APIError { return &APIError{Code: CodeUnavailable, Message: msg} }

// IsInvalid: 呼び出し側の入力が不正だったか
func IsInvalid(err error) bool {
	var api *APIError
	return errors.As(err, &api) && api.Code == CodeInvalidArgument
}

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeUnavailable:
			return 503
		default:
			return 500
		}
	}
	return 500
}

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service =====

type Options struct {
	Calc     timecalc.Config
	Location *time.Location
}

type Service struct {
	src        Source
	engine     *worklog.Engine
	normalizer *worklog.Normalizer
	loc        *time.Location
	clock      Clock
	id         IDGen
}

func NewService(conn *sql.DB, opt Options) *Service {
	return NewServiceWithSource(NewStore(conn), opt)
}

func NewServiceWithSource(src Source, opt Options) *Service {
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		src:        src,
		engine:     worklog.NewEngine(opt.Calc, loc),
		normalizer: worklog.NewNormalizer(loc),
		loc:        loc,
		clock:      realClock{},
		id:         ulidGen{},
	}
}

// GET /calendar?year=&month=
// 取得に失敗しても空の月として返す（画面は「稼働なし」表示）
func (s *Service) SummarizeMonth(ctx context.Context, year, month int, o timecalc.Override) (MonthSummaryResponse, error) {
	from, to, err := s.monthRange(year, month)
	if err != nil {
		return MonthSummaryResponse{}, err
	}
	resp := MonthSummaryResponse{Year: year, Month: month, Days: []worklog.CalendarDaySummary{}}

	logs, err := s.fetchLogs(ctx, from, to)
	if err != nil {
		log.Printf("[WARN] calendar %04d-%02d: fetch failed: %v", year, month, err)
		return resp, nil
	}
	resp.Days = s.engineFor(o).SummarizeMonth(logs)
	return resp, nil
}

// GET /days/:date
// 日付が不正なら INVALID_ARGUMENT，取得失敗は UNAVAILABLE（「セッション無し」とは区別する）
func (s *Service) GetDayDetail(ctx context.Context, date string, o timecalc.Override) (DayDetailResponse, error) {
	day, err := s.parseDate(date, "date")
	if err != nil {
		return DayDetailResponse{}, err
	}
	logs, err := s.fetchLogs(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("[ERROR] day detail %s: fetch failed: %v", day.Format(DateLayout), err)
		return DayDetailResponse{}, ErrUnavailable("record store unavailable")
	}
	sessions := s.engineFor(o).Pair(logs)
	if sessions == nil {
		sessions = []worklog.SessionDetail{}
	}
	return DayDetailResponse{Date: day.Format(DateLayout), Sessions: sessions}, nil
}

// GET /reports/sessions
func (s *Service) BuildSessionReport(ctx context.Context, q ReportQuery, o timecalc.Override) ([]worklog.SessionReportRow, error) {
	from, err := s.parseDate(q.From, "from")
	if err != nil {
		return nil, err
	}
	to, err := s.parseDate(q.To, "to")
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ErrInvalid("to must be >= from")
	}
	end := to.AddDate(0, 0, 1)
	if end.Sub(from) > MaxReportDays*24*time.Hour {
		return nil, ErrInvalid(fmt.Sprintf("range must be <= %d days", MaxReportDays))
	}

	logs, err := s.fetchLogs(ctx, from, end)
	if err != nil {
		log.Printf("[WARN] session report %s..%s: fetch failed: %v", q.From, q.To, err)
		return []worklog.SessionReportRow{}, nil
	}
	rows := s.engineFor(o).BuildReportFiltered(logs, q.Filters)
	if rows == nil {
		rows = []worklog.SessionReportRow{}
	}
	return rows, nil
}

// GET /work?year=&month=
func (s *Service) AggregateWorkByMonth(ctx context.Context, q WorkQuery, o timecalc.Override) (WorkAggregationResponse, error) {
	from, to, err := s.monthRange(q.Year, q.Month)
	if err != nil {
		return WorkAggregationResponse{}, err
	}
	resp := WorkAggregationResponse{Year: q.Year, Month: q.Month, Users: []worklog.UserWork{}}

	sessions, err := s.src.FetchSessionsInRange(ctx, from, to)
	if err != nil {
		log.Printf("[WARN] work %04d-%02d: fetch failed: %v", q.Year, q.Month, err)
		return resp, nil
	}
	resp.Users = s.engineFor(o).AggregateByMonth(sessions, q.Filters, s.directory(ctx))
	return resp, nil
}

// POST /punches
func (s *Service) RecordPunch(ctx context.Context, in CreatePunchRequest) (PunchResponse, error) {
	typ := worklog.ParsePunchType(in.Type)
	if typ == "" {
		return PunchResponse{}, ErrInvalid("type must be IN or OUT")
	}
	if blank(in.UserID) && blank(in.UserName) {
		return PunchResponse{}, ErrInvalid("user_id or user_name is required")
	}

	at := s.clock.Now()
	if in.Timestamp != nil && strings.TrimSpace(*in.Timestamp) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*in.Timestamp))
		if err != nil {
			return PunchResponse{}, ErrInvalid("timestamp must be RFC3339")
		}
		at = parsed
	}

	id, err := s.id.New()
	if err != nil {
		return PunchResponse{}, err
	}
	p := Punch{LogID: id, Fields: punchFields(in, typ, at.UnixMilli())}
	if err := s.src.InsertPunch(ctx, p, at); err != nil {
		return PunchResponse{}, err
	}
	return PunchResponse{LogID: id, Type: string(typ), PunchedAt: at.In(s.loc)}, nil
}

// ===== helpers =====

// fetchLogs: 取得 → 正規化 → マスタで名前補完 → 範囲外（本文の時刻基準）を除外
func (s *Service) fetchLogs(ctx context.Context, from, to time.Time) ([]worklog.NormalizedLog, error) {
	raws, err := s.src.FetchLogsInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	logs := worklog.Enrich(s.normalizer.NormalizeAll(raws), s.directory(ctx))

	lo, hi := from.UnixMilli(), to.UnixMilli()
	out := logs[:0]
	for _, l := range logs {
		if l.TimestampMs >= lo && l.TimestampMs < hi {
			out = append(out, l)
		}
	}
	return out, nil
}

// directory: マスタが読めなくても名前補完をしないだけで処理は続ける
func (s *Service) directory(ctx context.Context) worklog.NameResolver {
	dir, err := s.src.LoadDirectory(ctx)
	if err != nil {
		log.Printf("[WARN] directory: load failed: %v", err)
		return worklog.Directory{}
	}
	return dir
}

func (s *Service) engineFor(o timecalc.Override) *worklog.Engine {
	return s.engine.WithCalc(s.engine.Calc().With(o))
}

func (s *Service) monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalid("month must be 1-12")
	}
	if year < 1900 || year > 9999 {
		return time.Time{}, time.Time{}, ErrInvalid("year is out of range")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	return from, from.AddDate(0, 1, 0), nil
}

// parseDate: "YYYY-MM-DD" または "today"（現場の日付）
func (s *Service) parseDate(v, name string) (time.Time, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return time.Time{}, ErrInvalid(name + " is required")
	}
	if v == "today" {
		v = s.clock.Now().In(s.loc).Format(DateLayout)
	}
	t, err := time.ParseInLocation(DateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalid(name + " must be YYYY-MM-DD or 'today'")
	}
	return t, nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// OptionsFromConfig: 設定ファイルの time_calc / site から Options を作る
func OptionsFromConfig(cfg *db.Config) (Options, error) {
	calc, err := cfg.Calc()
	if err != nil {
		return Options{}, err
	}
	return Options{Calc: calc, Location: worklog.FixedZone(cfg.UTCOffsetMinutes())}, nil
}
