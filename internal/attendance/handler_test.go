package attendance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(src *fakeSource, guard ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), newTestService(src), guard...)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorDTO {
	t.Helper()
	var e errorDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestGetCalendarHandler(t *testing.T) {
	r := newTestRouter(sampleSource())

	w := do(r, http.MethodGet, "/api/v1/calendar?year=2025&month=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res MonthSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Days, 2)

	w = do(r, http.MethodGet, "/api/v1/calendar?year=2025&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, w).Error.Code)

	w = do(r, http.MethodGet, "/api/v1/calendar?year=abc&month=4", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCalendarHandler_Override(t *testing.T) {
	r := newTestRouter(sampleSource())

	w := do(r, http.MethodGet, "/api/v1/calendar?year=2025&month=4&time_calc=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res MonthSummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Days)
	assert.Equal(t, 9.0, res.Days[0].Hours)

	for _, q := range []string{"time_calc=maybe", "round_minutes=x", "break_minutes=-5", "round_mode=sideways"} {
		w := do(r, http.MethodGet, "/api/v1/calendar?year=2025&month=4&"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetDayHandler(t *testing.T) {
	w := do(newTestRouter(sampleSource()), http.MethodGet, "/api/v1/days/2025-04-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res DayDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Sessions, 2)

	w = do(newTestRouter(sampleSource()), http.MethodGet, "/api/v1/days/not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	down := &fakeSource{logsErr: assert.AnError}
	w = do(newTestRouter(down), http.MethodGet, "/api/v1/days/2025-04-02", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, CodeUnavailable, decodeError(t, w).Error.Code)
}

func TestGetDayHandler_EmptyIsArray(t *testing.T) {
	w := do(newTestRouter(&fakeSource{}), http.MethodGet, "/api/v1/days/2025-04-02", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessions":[]`)
}

func TestCreatePunchHandler(t *testing.T) {
	src := &fakeSource{}
	r := newTestRouter(src)

	w := do(r, http.MethodPost, "/api/v1/punches", map[string]any{"type": "IN", "user_id": "u1", "site_id": "s1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/punches/01TESTID1", w.Header().Get("Location"))
	require.Len(t, src.inserted, 1)
	assert.Equal(t, "s1", src.inserted[0].Fields["site_id"])

	w = do(r, http.MethodPost, "/api/v1/punches", map[string]any{"user_id": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/punches", map[string]any{"type": "BREAK", "user_id": "u1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, w).Error.Code)
}

func TestSessionReportHandler_Formats(t *testing.T) {
	r := newTestRouter(sampleSource())
	base := "/api/v1/reports/sessions?from=2025-04-01&to=2025-04-30"

	w := do(r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Equal(t, "A現場", body.Items[0]["site_name"])

	w = do(r, http.MethodGet, base+"&format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sessions_2025-04-01_2025-04-30.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "\ufeff日付,"))

	w = do(r, http.MethodGet, base+"&format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// zip のマジック
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(r, http.MethodGet, base+"&format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/reports/sessions?from=2025-04-30&to=2025-04-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWorkHandler(t *testing.T) {
	w := do(newTestRouter(&fakeSource{}), http.MethodGet, "/api/v1/work?year=2025&month=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"users":[]`)
}

func TestGuardOnlyOnReportRoutes(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", "login required"))
	}
	r := newTestRouter(sampleSource(), deny)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/reports/sessions?from=2025-04-01&to=2025-04-30", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/work?year=2025&month=4", nil).Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/calendar?year=2025&month=4", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/days/2025-04-01", nil).Code)
}
