package handlers_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/u83213089-oss/cat-lottery/internal/logger"
)

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRequestLogger_FollowsSwitch(t *testing.T) {
	buf := captureDefaultLog(t)
	setup := newTestSetup(t)
	log := logger.New()
	setup.handlers.Log = log
	router := setup.handlers.Router()

	serve(router, httptest.NewRequest(http.MethodGet, "/api/live-state", nil))
	if strings.Contains(buf.String(), "HTTP request") {
		t.Fatalf("logged while disabled: %s", buf.String())
	}

	log.EnableHTTPLogging()
	serve(router, httptest.NewRequest(http.MethodGet, "/api/live-state", nil))
	out := buf.String()
	for _, want := range []string{"HTTP request", "path=/api/live-state", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}
}

func TestRouter_AdminAPIRequiresAuth(t *testing.T) {
	setup := newTestSetup(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/cats"},
		{http.MethodPost, "/api/admin/live/draw"},
		{http.MethodPut, "/api/admin/applicants/a1/application"},
		{http.MethodGet, "/api/admin/display-qr"},
		{http.MethodPost, "/api/admin/reset"},
	}
	for _, p := range paths {
		rec := setup.do(t, p.method, p.path, nil, false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}
}

func TestRouter_TrailingSlashRedirects(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/admin/cats/", nil, true)
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasSuffix(loc, "/api/admin/cats") {
		t.Errorf("expected redirect to /api/admin/cats, got %s", loc)
	}
}
