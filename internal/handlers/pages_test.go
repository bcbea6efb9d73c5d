package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/handlers"
	"github.com/u83213089-oss/cat-lottery/internal/testutil"
)

func TestNew_MissingTemplate(t *testing.T) {
	templatesFS := createTestTemplatesFS()
	delete(templatesFS, "display.html")

	_, err := handlers.New(handlers.Services{}, templatesFS, fstest.MapFS{}, nil, nil, handlers.NoopHTTPLogger{})
	if err == nil || !strings.Contains(err.Error(), "display template") {
		t.Errorf("expected display template error, got %v", err)
	}
}

func TestHandleIndex(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Index") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleDisplayPage_RendersLiveState(t *testing.T) {
	setup := newTestSetupWithTemplates(t)
	testutil.SeedCats(t, setup.repo, 3)
	if _, err := setup.handlers.Lottery.Preview(context.Background(), []int{3}); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/display", nil))
	expectStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, want := range []string{"phase=preview", "rev=1", "[No. 03 Cat 3]"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in %s", want, body)
		}
	}
	if strings.Contains(body, "updated=never") {
		t.Errorf("expected a relative time, got %s", body)
	}
}

func TestHandleDisplayPage_InitialState(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/display", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "updated=never") {
		t.Errorf("expected never-updated state, got %s", rec.Body.String())
	}
}

func TestStaticFiles(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	expectStatus(t, rec, http.StatusOK)
}

func TestHandleAdminDashboard(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(setup.authCookie)
	rec := serve(setup.router, req)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Lottery Control Dashboard") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleAdminDashboard_RedirectsWithoutSession(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/admin", nil))
	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %s", loc)
	}
}

// ==================== Login / Logout ====================

func TestHandleLoginPage_AlreadyLoggedIn(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req.AddCookie(setup.authCookie)
	rec := serve(setup.router, req)

	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected redirect to /admin, got %s", loc)
	}
}

func TestHandleLoginPage_NotLoggedIn(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Login") {
		t.Errorf("expected login page, got %s", rec.Body.String())
	}
}

func postLogin(t *testing.T, router http.Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(router, req)
}

func TestHandleLogin_Success(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := postLogin(t, setup.router, handlers.TestPassword)
	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected redirect to /admin, got %s", loc)
	}

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !setup.handlers.Auth.ValidateSession(session.Value) {
		t.Error("issued session is not valid")
	}
}

func TestHandleLogin_InvalidPassword(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	for _, pw := range []string{"wrong", ""} {
		rec := postLogin(t, setup.router, pw)
		expectStatus(t, rec, http.StatusOK)
		if !strings.Contains(rec.Body.String(), "Invalid password") {
			t.Errorf("password %q: expected error message, got %s", pw, rec.Body.String())
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Errorf("password %q: no cookie expected", pw)
		}
	}
}

func TestHandleLogout(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.AddCookie(setup.authCookie)
	rec := serve(setup.router, req)

	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %s", loc)
	}
	if setup.handlers.Auth.ValidateSession(setup.authCookie.Value) {
		t.Error("session still valid after logout")
	}
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	expectStatus(t, rec, http.StatusFound)
}

func TestHandleLogin_RedirectsToNext(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	tests := []struct {
		next string
		want string
	}{
		{"/admin/history", "/admin/history"},
		{"https://evil.example/admin", "/admin"},
		{"/admin/login", "/admin"},
		{"", "/admin"},
	}
	for _, tt := range tests {
		form := url.Values{"password": {handlers.TestPassword}, "next": {tt.next}}
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := serve(setup.router, req)

		expectStatus(t, rec, http.StatusFound)
		if loc := rec.Header().Get("Location"); loc != tt.want {
			t.Errorf("next=%q: expected %s, got %s", tt.next, tt.want, loc)
		}
	}
}

func TestHandleAPILogin(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := serve(setup.router, newJSONRequest(t, http.MethodPost, "/api/admin-auth", `{"password":"`+handlers.TestPassword+`"}`))
	expectStatus(t, rec, http.StatusOK)
	var body map[string]bool
	decodeBody(t, rec, &body)
	if !body["ok"] {
		t.Errorf("expected ok, got %v", body)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected session cookie")
	}

	rec = serve(setup.router, newJSONRequest(t, http.MethodPost, "/api/admin-auth", `{"password":"nope"}`))
	expectStatus(t, rec, http.StatusUnauthorized)

	rec = serve(setup.router, newJSONRequest(t, http.MethodPost, "/api/admin-auth", `not json`))
	expectStatus(t, rec, http.StatusBadRequest)
}
