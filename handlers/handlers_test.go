package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"repairhub/middleware"
	"repairhub/models"
	"repairhub/services/admin"
	"repairhub/services/report"
	"repairhub/utils"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(uid string) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid != "" {
			c.Set(middleware.ContextUID, uid)
		}
		c.Next()
	})
	return r
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeStats struct {
	st        models.Stats
	err       error
	refreshed bool
	lastLimit int
}

func (f *fakeStats) GetStats(ctx context.Context) (models.Stats, error) { return f.st, f.err }
func (f *fakeStats) Refresh(ctx context.Context) (models.Stats, error) {
	f.refreshed = true
	return f.st, f.err
}
func (f *fakeStats) Invalidate(ctx context.Context) error { return nil }
func (f *fakeStats) SaveSnapshot(ctx context.Context) (models.StatsSnapshot, error) {
	return models.StatsSnapshot{}, nil
}
func (f *fakeStats) History(ctx context.Context, limit int) ([]models.StatsSnapshot, error) {
	f.lastLimit = limit
	return []models.StatsSnapshot{{ID: "s1", Stats: f.st}}, f.err
}

type fakeStream struct{ values []models.Stats }

func (f fakeStream) Subscribe() (<-chan models.Stats, func()) {
	ch := make(chan models.Stats, len(f.values))
	for _, v := range f.values {
		ch <- v
	}
	close(ch)
	return ch, func() {}
}

// closeNotifyingRecorder lets gin's Stream run against a recorder.
type closeNotifyingRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *closeNotifyingRecorder) CloseNotify() <-chan bool { return r.closed }

func sampleStats() models.Stats {
	return models.Stats{
		TotalAppointments: 4,
		Months:            []models.MonthBucket{{Key: "2026-10", Label: "Oct", Count: 4}},
		GeneratedAt:       time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestStatsHandlerGetAndRefresh(t *testing.T) {
	svc := &fakeStats{st: sampleStats()}
	h := NewStatsHandler(svc, nil)
	r := testRouter("admin")
	r.GET("/stats", h.GetStats)

	w := request(r, http.MethodGet, "/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body)
	}
	var got models.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.TotalAppointments != 4 || svc.refreshed {
		t.Fatalf("got=%+v refreshed=%v", got, svc.refreshed)
	}

	request(r, http.MethodGet, "/stats?refresh=true", "")
	if !svc.refreshed {
		t.Fatal("refresh=true should recompute")
	}
}

func TestStatsHandlerErrors(t *testing.T) {
	svc := &fakeStats{err: fmt.Errorf("load: %w", status.Error(codes.Unavailable, "down"))}
	r := testRouter("admin")
	r.GET("/stats", NewStatsHandler(svc, nil).GetStats)

	w := request(r, http.MethodGet, "/stats", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", w.Code)
	}
	if strings.Contains(w.Body.String(), "down") {
		t.Fatalf("server error details leaked: %s", w.Body)
	}
}

func TestStatsHandlerExportCSV(t *testing.T) {
	r := testRouter("admin")
	r.GET("/export", NewStatsHandler(&fakeStats{st: sampleStats()}, nil).ExportCSV)

	w := request(r, http.MethodGet, "/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("Content-Type=%q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "stats-20261014-093000.csv") {
		t.Fatalf("Content-Disposition=%q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "section,") {
		t.Fatalf("CSV should start with the header row, got %q", w.Body.String())
	}
}

func TestStatsHandlerHistory(t *testing.T) {
	svc := &fakeStats{st: sampleStats()}
	r := testRouter("admin")
	r.GET("/history", NewStatsHandler(svc, nil).History)

	w := request(r, http.MethodGet, "/history?limit=3", "")
	if w.Code != http.StatusOK || svc.lastLimit != 3 {
		t.Fatalf("status=%d limit=%d", w.Code, svc.lastLimit)
	}
	if !strings.Contains(w.Body.String(), `"id":"s1"`) {
		t.Fatalf("body=%s", w.Body)
	}
}

func TestStatsHandlerStream(t *testing.T) {
	h := NewStatsHandler(&fakeStats{}, fakeStream{values: []models.Stats{sampleStats()}})
	r := testRouter("admin")
	r.GET("/stream", h.StreamStats)

	w := &closeNotifyingRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	body := w.Body.String()
	if !strings.Contains(body, "event:stats") || !strings.Contains(body, `"totalAppointments":4`) {
		t.Fatalf("unexpected SSE body: %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type=%q", ct)
	}
}

func TestStatsHandlerStreamDisabled(t *testing.T) {
	r := testRouter("admin")
	r.GET("/stream", NewStatsHandler(&fakeStats{}, nil).StreamStats)
	if w := request(r, http.MethodGet, "/stream", ""); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

type fakeRanking struct {
	viewer string
	limit  int
}

func (f *fakeRanking) TopRated(ctx context.Context, viewerUID string, limit int) ([]models.RankedTechnician, error) {
	f.viewer, f.limit = viewerUID, limit
	return []models.RankedTechnician{{UID: "t1", Rating: 4.9}}, nil
}
func (f *fakeRanking) Invalidate(ctx context.Context) error { return nil }

func TestRankingHandler(t *testing.T) {
	svc := &fakeRanking{}
	r := testRouter("u1")
	r.GET("/top", NewRankingHandler(svc).TopRated)

	w := request(r, http.MethodGet, "/top", "")
	if w.Code != http.StatusOK || svc.limit != 10 || svc.viewer != "u1" {
		t.Fatalf("status=%d limit=%d viewer=%q", w.Code, svc.limit, svc.viewer)
	}
	request(r, http.MethodGet, "/top?limit=25", "")
	if svc.limit != 25 {
		t.Fatalf("limit=%d, want 25", svc.limit)
	}
	for _, bad := range []string{"abc", "0", "-3"} {
		if w := request(r, http.MethodGet, "/top?limit="+bad, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: status=%d", bad, w.Code)
		}
	}
}

type fakeReports struct {
	outcome models.ReportOutcome
	err     error
	userID  string
}

func (f *fakeReports) SubmitReport(ctx context.Context, technicianID, userID, reason string) (models.ReportOutcome, error) {
	f.userID = userID
	return f.outcome, f.err
}
func (f *fakeReports) UpdateStatus(ctx context.Context, reportID, status string) error { return f.err }
func (f *fakeReports) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	return nil, f.err
}

func TestReportHandlerSubmit(t *testing.T) {
	svc := &fakeReports{outcome: models.ReportOutcome{TotalReports: 5, AutoBlocked: true}}
	r := testRouter("u1")
	r.POST("/reports", NewReportHandler(svc).SubmitReport)

	w := request(r, http.MethodPost, "/reports", `{"technicianId":"t1","reason":"no show"}`)
	if w.Code != http.StatusCreated || svc.userID != "u1" {
		t.Fatalf("status=%d userID=%q body=%s", w.Code, svc.userID, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"autoBlocked":true`) {
		t.Fatalf("body=%s", w.Body)
	}

	if w := request(r, http.MethodPost, "/reports", `{"technicianId":"t1"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing reason: status=%d", w.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	notFound := status.Error(codes.NotFound, "missing")
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %w", report.ErrTechnicianNotFound, notFound), http.StatusNotFound},
		{report.ErrReportNotFound, http.StatusNotFound},
		{admin.ErrNotAdmin, http.StatusForbidden},
		{fmt.Errorf("%w: a@b.co", admin.ErrEmailExists), http.StatusConflict},
		{utils.NewValidationError("reason", "required"), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v)=%d, want %d", tc.err, got, tc.want)
		}
	}
}

type fakeModeration struct {
	action models.ModerationAction
}

func (f *fakeModeration) List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error) {
	return []models.Technician{{UID: "t1"}}, nil
}
func (f *fakeModeration) Apply(ctx context.Context, uid string, action models.ModerationAction) (*models.Technician, error) {
	f.action = action
	return &models.Technician{UID: uid}, nil
}

func TestTechnicianHandler(t *testing.T) {
	svc := &fakeModeration{}
	h := NewTechnicianHandler(svc)
	r := testRouter("admin")
	r.PATCH("/technicians/:id/:action", h.ModerateTechnician)
	r.DELETE("/technicians/:id", h.DeleteTechnician)

	if w := request(r, http.MethodPatch, "/technicians/t1/Approve", ""); w.Code != http.StatusOK || svc.action != models.ActionApprove {
		t.Fatalf("approve: status=%d action=%q", w.Code, svc.action)
	}
	if w := request(r, http.MethodPatch, "/technicians/t1/promote", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown action: status=%d", w.Code)
	}
	if w := request(r, http.MethodPatch, "/technicians/t1/delete", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("delete via PATCH: status=%d", w.Code)
	}
	if w := request(r, http.MethodDelete, "/technicians/t1", ""); w.Code != http.StatusOK || svc.action != models.ActionDelete {
		t.Fatalf("delete: status=%d action=%q", w.Code, svc.action)
	}
}

type fakeAccounts struct{ caller string }

func (f *fakeAccounts) IsAdmin(ctx context.Context, uid string) (bool, error) { return uid == "admin", nil }
func (f *fakeAccounts) CreateUser(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error) {
	f.caller = callerUID
	if callerUID != "admin" {
		return nil, admin.ErrNotAdmin
	}
	return &models.CreatedAccount{UID: "new", Email: req.Email, Role: "user"}, nil
}
func (f *fakeAccounts) CreateTechnician(ctx context.Context, callerUID string, req models.AccountRequest) (*models.CreatedAccount, error) {
	return f.CreateUser(ctx, callerUID, req)
}

func TestAccountHandler(t *testing.T) {
	body := `{"email":"a@b.co","password":"secret1","phone":"09171234567"}`

	r := testRouter("admin")
	r.POST("/users", NewAccountHandler(&fakeAccounts{}).CreateUser)
	if w := request(r, http.MethodPost, "/users", body); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body)
	}

	r = testRouter("someone")
	r.POST("/users", NewAccountHandler(&fakeAccounts{}).CreateUser)
	if w := request(r, http.MethodPost, "/users", body); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status=%d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	r := testRouter("")
	r.GET("/health", NewHealthHandler().Health)
	w := request(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body)
	}
}
