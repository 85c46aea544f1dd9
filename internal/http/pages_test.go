package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/CiceroLino/full-stack-technical-assessment/internal/domain"
	apphttp "github.com/CiceroLino/full-stack-technical-assessment/internal/http"
	"github.com/CiceroLino/full-stack-technical-assessment/internal/service"
)

func (s *testServer) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPages_SignUpFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/sign-up", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `action="/sign-up"`)

	rec = srv.postForm(t, "/sign-up", url.Values{
		"email":           {"alice@example.com"},
		"password":        {"short"},
		"confirmPassword": {"short"},
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `value="alice@example.com"`)

	rec = srv.postForm(t, "/sign-up", url.Values{
		"email":           {"alice@example.com"},
		"name":            {"Alice <admin>"},
		"password":        {"Passw0rd!"},
		"confirmPassword": {"Passw0rd!"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)

	rec = srv.do(t, http.MethodGet, "/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Alice &lt;admin&gt;")
	require.Contains(t, rec.Body.String(), `id="stats-card"`)

	rec = srv.do(t, http.MethodGet, "/sign-in", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestPages_SignInFailureRendersForm(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.postForm(t, "/sign-in", url.Values{"email": {"nobody@example.com"}, "password": {"x"}}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestPages_TaskForms(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.signUp(t, "alice@example.com")

	rec := srv.postForm(t, "/dashboard/tasks", url.Values{"title": {"Plan sprint"}, "description": {""}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/tasks", nil, cookie)
	tasks := decode[[]apphttp.TaskResponse](t, rec)
	require.Len(t, tasks, 1)
	require.Nil(t, tasks[0].Description)
	id := tasks[0].ID

	rec = srv.postForm(t, "/dashboard/tasks/"+id+"/status", url.Values{"status": {"in_progress"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = srv.do(t, http.MethodGet, "/dashboard/tasks", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Plan sprint")
	require.Contains(t, rec.Body.String(), `<option value="in_progress" selected>`)

	rec = srv.postForm(t, "/dashboard/tasks", url.Values{"title": {"ab"}}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "title must be at least 3 characters")

	rec = srv.postForm(t, "/dashboard/tasks/"+id+"/delete", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = srv.postForm(t, "/dashboard/tasks/"+id+"/delete", nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPages_ProtectedRedirects(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/dashboard", "/dashboard/tasks", "/dashboard/stats", "/tasks"} {
		rec := srv.do(t, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusFound, rec.Code, path)
		require.Equal(t, "/sign-in", rec.Header().Get("Location"), path)
	}
}

func TestPages_StatsStream(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.signUp(t, "alice@example.com")

	rec := srv.do(t, http.MethodGet, "/dashboard/stats", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
	require.Contains(t, rec.Body.String(), "datastar-patch-elements")
	require.Contains(t, rec.Body.String(), "stats-card")
}

func TestPages_SignOut(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.signUp(t, "alice@example.com")

	rec := srv.postForm(t, "/sign-out", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/sign-in", rec.Header().Get("Location"))

	rec = srv.do(t, http.MethodGet, "/dashboard", nil, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestPages_EditTask(t *testing.T) {
	srv := newTestServer(t)
	cookie := srv.signUp(t, "alice@example.com")

	rec := srv.postForm(t, "/dashboard/tasks", url.Values{"title": {"Draft memo"}, "description": {"first pass"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = srv.do(t, http.MethodGet, "/api/tasks", nil, cookie)
	id := decode[[]apphttp.TaskResponse](t, rec)[0].ID

	rec = srv.do(t, http.MethodGet, "/dashboard/tasks", nil, cookie)
	require.Contains(t, rec.Body.String(), `action="/dashboard/tasks/`+id+`"`)

	rec = srv.postForm(t, "/dashboard/tasks/"+id, url.Values{"title": {"Final memo"}, "description": {"  "}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard/tasks", rec.Header().Get("Location"))

	rec = srv.do(t, http.MethodGet, "/api/tasks/"+id, nil, cookie)
	task := decode[apphttp.TaskResponse](t, rec)
	require.Equal(t, "Final memo", task.Title)
	require.Nil(t, task.Description)
	require.Equal(t, "pending", string(task.Status))

	rec = srv.postForm(t, "/dashboard/tasks/"+id, url.Values{"title": {"no"}}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "title must be at least 3 characters")

	other := srv.signUp(t, "bob@example.com")
	rec = srv.postForm(t, "/dashboard/tasks/"+id, url.Values{"title": {"Hijacked"}}, other)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// failingUsers resolves every user lookup to a store error.
type failingUsers struct {
	service.AuthService
	err error
}

func (f failingUsers) GetUser(context.Context, string) (*domain.User, error) {
	return nil, f.err
}

func TestPages_HomeLogsUserLookupFailure(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sessions := &stubSessions{valid: map[string]*domain.Session{
		"good": {ID: "s1", UserID: "u1", Token: "good"},
	}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(apphttp.RequestLogger(logger))
	users := failingUsers{err: errors.New("database is locked")}
	apphttp.NewHandler(users, sessions, nil, nil, apphttp.Options{}).RegisterRoutes(router)

	rec := gateRequest(router, "/", "good")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `href="/sign-in"`)

	var logged *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "load user for home page" {
			logged = entry
		}
	}
	require.NotNil(t, logged)
	require.Equal(t, logrus.ErrorLevel, logged.Level)

	hook.Reset()
	rec = gateRequest(router, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, entry := range hook.AllEntries() {
		require.NotEqual(t, logrus.ErrorLevel, entry.Level)
	}
}
