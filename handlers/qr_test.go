package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DszGabriel04/attendance-nitgoa/config"
	"github.com/DszGabriel04/attendance-nitgoa/database"
	"github.com/DszGabriel04/attendance-nitgoa/guard"
	"github.com/DszGabriel04/attendance-nitgoa/sessions"
)

type testApp struct {
	router   *gin.Engine
	registry *sessions.Registry
	guard    *guard.ScanGuard
	store    *database.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, store.SeedFaculty())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	registry := sessions.NewRegistry()
	scanGuard := guard.New(rdb, time.Hour)
	cfg := config.Config{
		CleanupOnFailure: true,
		AllowedOrigins:   []string{"http://localhost:8081"},
	}

	h := New(store, registry, scanGuard, cfg)
	return &testApp{
		router:   Router(h),
		registry: registry,
		guard:    scanGuard,
		store:    store,
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (a *testApp) createClass(t *testing.T, classID string, studentIDs ...string) {
	t.Helper()
	students := make([]map[string]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		students = append(students, map[string]string{"id": id, "name": "Student " + id})
	}
	w := a.do(t, http.MethodPost, "/classes", map[string]any{
		"id":           classID,
		"subject_name": "Distributed Systems",
		"faculty_id":   "FAC-101",
		"students":     students,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (a *testApp) issueToken(t *testing.T, classID string) string {
	t.Helper()
	w := a.do(t, http.MethodGet, "/qr/generate?class_id="+classID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestGenerateQR(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")

	w := app.do(t, http.MethodGet, "/qr/generate?class_id=CS-402", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	token := resp["token"].(string)
	assert.Len(t, token, 32, "16 bytes of entropy hex-encoded")
	assert.True(t, strings.HasPrefix(resp["data"].(string), "data:image/png;base64,"))
	assert.Contains(t, resp["validation_url"].(string), "/qr/validate?token="+token)
	assert.True(t, app.registry.IsActive(token))
}

func TestGenerateQRRawImage(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")

	w := app.do(t, http.MethodGet, "/qr/generate?class_id=CS-402&as_base64=false&length=8", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	token := w.Header().Get("X-QR-Token")
	assert.Len(t, token, 16)
	assert.Contains(t, w.Header().Get("X-Validation-URL"), token)
	assert.True(t, app.registry.IsActive(token))
}

func TestGenerateQRValidation(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")

	w := app.do(t, http.MethodGet, "/qr/generate?class_id=NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/qr/generate", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/qr/generate?class_id=CS-402&length=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/qr/generate?class_id=CS-402&length=257", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/qr/generate?class_id=CS-402&box_size=41", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidatePage(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")
	token := app.issueToken(t, "CS-402")

	w := app.do(t, http.MethodGet, "/qr/validate?token="+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), token)

	w = app.do(t, http.MethodGet, "/qr/validate?token=never-issued", nil)
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "QR Code Expired")
}

func TestCheckScan(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/check_scan", map[string]string{
		"device_id": "dev-1", "session_id": "sess-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["allowed"])

	w = app.do(t, http.MethodPost, "/api/check_scan", map[string]string{
		"device_id": "dev-1", "session_id": "sess-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["allowed"])

	w = app.do(t, http.MethodPost, "/api/check_scan", map[string]string{"device_id": "dev-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitThenDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")
	token := app.issueToken(t, "CS-402")

	w := app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
		"token": token, "student_id": "22CSE1032",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
		"token": token, "student_id": "22CSE1032",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	count, ok := app.registry.Count(token)
	require.True(t, ok)
	assert.Equal(t, 1, count)
}

func TestSubmitToUnknownToken(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032")

	w := app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
		"token": "never-issued", "student_id": "22CSE1032",
	})
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestSubmitUnenrolledStudent(t *testing.T) {
	app := newTestApp(t)
	// class with zero students on its roster
	app.createClass(t, "CS-402")
	token := app.issueToken(t, "CS-402")

	w := app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
		"token": token, "student_id": "22CSE9999",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	count, ok := app.registry.Count(token)
	require.True(t, ok)
	assert.Zero(t, count, "rejected submission must not touch the registry")
}

func TestSubmitValidationError(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{"token": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatus(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032", "22CSE1033")
	token := app.issueToken(t, "CS-402")

	w := app.do(t, http.MethodGet, "/qr/status?token="+token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "CS-402", resp["class_id"])
	assert.EqualValues(t, 0, resp["submission_count"])
	assert.NotContains(t, resp, "submitted_students")

	app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
		"token": token, "student_id": "22CSE1032",
	})

	w = app.do(t, http.MethodGet, "/qr/status?token="+token+"&include_details=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.EqualValues(t, 1, resp["submission_count"])
	assert.Equal(t, []any{"22CSE1032"}, resp["submitted_students"])

	w = app.do(t, http.MethodGet, "/qr/status?token=never-issued", nil)
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestCancelFinalizesSession(t *testing.T) {
	app := newTestApp(t)
	app.createClass(t, "CS-402", "22CSE1032", "22CSE1033")
	token := app.issueToken(t, "CS-402")

	// device markers that cancel must clear
	w := app.do(t, http.MethodPost, "/api/check_scan", map[string]string{
		"device_id": "dev-1", "session_id": token,
	})
	require.Equal(t, http.StatusOK, w.Code)

	for _, student := range []string{"22CSE1032", "22CSE1033"} {
		w := app.do(t, http.MethodPost, "/qr/submit-attendance", map[string]string{
			"token": token, "student_id": student,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = app.do(t, http.MethodPost, "/qr/cancel", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, true, resp["cancelled"])
	assert.EqualValues(t, 2, resp["students_marked_present"])
	assert.ElementsMatch(t, []any{"22CSE1032", "22CSE1033"}, resp["submitted_students"])

	// token is dead
	assert.False(t, app.registry.IsActive(token))
	w = app.do(t, http.MethodGet, "/qr/status?token="+token, nil)
	assert.Equal(t, http.StatusGone, w.Code)

	// rows are durable and present for today
	today := time.Now().Format("2006-01-02")
	w = app.do(t, http.MethodGet, "/attendance/history/CS-402", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		AttendanceHistory []struct {
			Date      string `json:"date"`
			StudentID string `json:"student_id"`
			Status    string `json:"status"`
		} `json:"attendance_history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	present := 0
	for _, rec := range history.AttendanceHistory {
		if rec.Date == today && rec.Status == "P" {
			present++
		}
	}
	assert.Equal(t, 2, present)

	// guard keys cleared: the same device may scan a future session
	w = app.do(t, http.MethodPost, "/api/check_scan", map[string]string{
		"device_id": "dev-1", "session_id": token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["allowed"])

	// cancelling again is NotFound
	w = app.do(t, http.MethodPost, "/qr/cancel", map[string]string{"token": token})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelUnknownToken(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodPost, "/qr/cancel", map[string]string{"token": "never-issued"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodPost, "/qr/cancel", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
