package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/handlers"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
	"github.com/u83213089-oss/cat-lottery/internal/repository/mock"
	"github.com/u83213089-oss/cat-lottery/internal/rng"
	"github.com/u83213089-oss/cat-lottery/internal/services"
	"github.com/u83213089-oss/cat-lottery/internal/testutil"
)

type testSetup struct {
	repo       *repository.Repository
	mockRepo   *mock.Repository
	handlers   *handlers.Handlers
	router     chi.Router
	authCookie *http.Cookie
}

func buildServices(log logger.Logger, repo repository.FullRepository) handlers.Services {
	settingsSvc := services.NewSettingsService(log, repo, false)
	catSvc := services.NewCatService(log, repo)
	applicantSvc := services.NewApplicantService(log, repo, rng.NewSeededSource(5))
	lotterySvc := services.NewLotteryService(log, repo, settingsSvc, rng.NewSeededSource(9))
	displaySvc := services.NewDisplayService(settingsSvc)
	return handlers.Services{
		Cats:       catSvc,
		Applicants: applicantSvc,
		Lottery:    lotterySvc,
		Settings:   settingsSvc,
		Display:    displaySvc,
	}
}

// newTestSetup creates a test setup with an in-memory repository behind an
// error-injecting wrapper
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	log := logger.New()

	h := handlers.NewForTesting(buildServices(log, mockRepo))

	token, ok := h.Auth.Login(handlers.TestPassword)
	if !ok {
		t.Fatal("test login failed")
	}

	return &testSetup{
		repo:       repo,
		mockRepo:   mockRepo,
		handlers:   h,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

// do sends a request through the router; body is JSON-encoded unless it is
// already a string
func (s *testSetup) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(s.authCookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":           &fstest.MapFile{Data: []byte(`<html><body>Index</body></html>`)},
		"display.html":         &fstest.MapFile{Data: []byte(`<html><body>Display phase={{.State.Phase}} rev={{.State.Revision}} updated={{ago .State.UpdatedAt}}{{range .State.Results}} [{{.CatLabel}} {{.CatName}}]{{end}}</body></html>`)},
		"admin/login.html":     &fstest.MapFile{Data: []byte(`<html><body>Login{{if .Error}} - {{.Error}}{{end}}</body></html>`)},
		"admin/layout.html":    &fstest.MapFile{Data: []byte(`{{define "admin"}}<html><body>{{.PageTitle}} {{template "content" .}}</body></html>{{end}}`)},
		"admin/dashboard.html": &fstest.MapFile{Data: []byte(`{{define "content"}}Dashboard{{end}}`)},
	}
}

type testSetupWithTemplates struct {
	repo       *repository.Repository
	handlers   *handlers.Handlers
	router     http.Handler
	authCookie *http.Cookie
}

func newTestSetupWithTemplates(t *testing.T) *testSetupWithTemplates {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	log := logger.New()

	adminAuth, err := auth.NewWithCost(handlers.TestPassword, 4)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}

	h, err := handlers.New(
		buildServices(log, repo),
		createTestTemplatesFS(),
		fstest.MapFS{"css/app.css": &fstest.MapFile{Data: []byte("body{}")}},
		adminAuth,
		nil,
		handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}

	token, _ := h.Auth.Login(handlers.TestPassword)
	return &testSetupWithTemplates{
		repo:       repo,
		handlers:   h,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

func newJSONRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
