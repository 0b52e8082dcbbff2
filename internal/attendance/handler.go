package attendance

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"GENBA-backend/internal/export"
	"GENBA-backend/internal/timecalc"
	"GENBA-backend/internal/worklog"
)

type Handler struct{ svc *Service }

// RegisterRoutes: guard は帳票系（reports / work）にだけ掛ける
func RegisterRoutes(r gin.IRoutes, svc *Service, guard ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	// 打刻（NFC ページから）
	r.POST("/punches", h.CreatePunch)

	// カレンダー・日別
	r.GET("/calendar", h.GetCalendar)
	r.GET("/days/:date", h.GetDay)

	// 帳票
	r.GET("/reports/sessions", withGuard(guard, h.GetSessionReport)...)
	r.GET("/work", withGuard(guard, h.GetWork)...)
}

func withGuard(guard []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guard)+1)
	out = append(out, guard...)
	return append(out, h)
}

// ---------- handlers ----------

// CreatePunch godoc
// @Summary 打刻を登録する
// @Tags    punches
// @Accept  json
// @Produce json
// @Param   body body CreatePunchRequest true "punch"
// @Success 201 {object} PunchResponse
// @Router  /punches [post]
func (h *Handler) CreatePunch(c *gin.Context) {
	var req CreatePunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.RecordPunch(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Location", "/punches/"+res.LogID)
	c.JSON(http.StatusCreated, res)
}

// GetCalendar godoc
// @Summary 月別カレンダー集計
// @Tags    calendar
// @Produce json
// @Param   year  query int true "year"
// @Param   month query int true "month (1-12)"
// @Success 200 {object} MonthSummaryResponse
// @Router  /calendar [get]
func (h *Handler) GetCalendar(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	o, ok := override(c)
	if !ok {
		return
	}
	res, err := h.svc.SummarizeMonth(c.Request.Context(), year, month, o)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetDay godoc
// @Summary 日別のセッション一覧
// @Tags    calendar
// @Produce json
// @Param   date path string true "YYYY-MM-DD or today"
// @Success 200 {object} DayDetailResponse
// @Router  /days/{date} [get]
func (h *Handler) GetDay(c *gin.Context) {
	o, ok := override(c)
	if !ok {
		return
	}
	res, err := h.svc.GetDayDetail(c.Request.Context(), c.Param("date"), o)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetSessionReport godoc
// @Summary 勤務実績（セッション単位）
// @Tags    reports
// @Produce json
// @Param   from    query string true  "YYYY-MM-DD"
// @Param   to      query string true  "YYYY-MM-DD"
// @Param   site    query string false "site name"
// @Param   user    query string false "user key"
// @Param   machine query string false "machine id"
// @Param   format  query string false "json | csv | csv-sjis | xlsx"
// @Success 200 {array} worklog.SessionReportRow
// @Security BearerAuth
// @Router  /reports/sessions [get]
func (h *Handler) GetSessionReport(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", DefaultFormat))
	switch format {
	case FormatJSON, FormatCSV, FormatCSVShift, FormatXLSX:
	default:
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "format must be json, csv, csv-sjis or xlsx"))
		return
	}
	o, ok := override(c)
	if !ok {
		return
	}
	q := ReportQuery{From: c.Query("from"), To: c.Query("to"), Filters: filters(c)}
	rows, err := h.svc.BuildSessionReport(c.Request.Context(), q, o)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}

	name := fmt.Sprintf(reportFilenameF, q.From, q.To)
	switch format {
	case FormatCSV, FormatCSVShift:
		enc := export.UTF8BOM
		if format == FormatCSVShift {
			enc = export.ShiftJIS
		}
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		c.Status(http.StatusOK)
		if err := export.WriteCSV(c.Writer, rows, enc); err != nil {
			_ = c.Error(err)
		}
	case FormatXLSX:
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
		c.Status(http.StatusOK)
		if err := export.WriteXLSX(c.Writer, rows); err != nil {
			_ = c.Error(err)
		}
	default:
		c.JSON(http.StatusOK, gin.H{"items": rows, "total": len(rows)})
	}
}

// GetWork godoc
// @Summary 月別の作業時間集計（ユーザー × 日）
// @Tags    reports
// @Produce json
// @Param   year    query int    true  "year"
// @Param   month   query int    true  "month (1-12)"
// @Param   site    query string false "site name"
// @Param   user    query string false "user key"
// @Param   machine query string false "machine id"
// @Success 200 {object} WorkAggregationResponse
// @Security BearerAuth
// @Router  /work [get]
func (h *Handler) GetWork(c *gin.Context) {
	year, month, ok := yearMonth(c)
	if !ok {
		return
	}
	o, ok := override(c)
	if !ok {
		return
	}
	res, err := h.svc.AggregateWorkByMonth(c.Request.Context(), WorkQuery{Year: year, Month: month, Filters: filters(c)}, o)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func yearMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "year must be a number"))
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "month must be a number"))
		return 0, 0, false
	}
	return year, month, true
}

func filters(c *gin.Context) worklog.Filters {
	return worklog.Filters{
		SiteName:  c.Query("site"),
		MachineID: c.Query("machine"),
		UserKey:   c.Query("user"),
	}
}

// override: time_calc / round_minutes / break_minutes / round_mode で1回分だけ上書き
func override(c *gin.Context) (timecalc.Override, bool) {
	var o timecalc.Override
	bad := func(msg string) (timecalc.Override, bool) {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, msg))
		return timecalc.Override{}, false
	}
	if v := c.Query("time_calc"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return bad("time_calc must be a boolean")
		}
		o.Enabled = &b
	}
	if v := c.Query("round_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return bad("round_minutes must be a number")
		}
		o.RoundMinutes = &n
	}
	if v := c.Query("break_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return bad("break_minutes must be a number >= 0")
		}
		o.BreakMinutes = &n
	}
	if v := c.Query("round_mode"); v != "" {
		m, err := timecalc.ParseRoundMode(v)
		if err != nil {
			return bad("round_mode must be nearest, up or down")
		}
		o.RoundMode = &m
	}
	return o, true
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
