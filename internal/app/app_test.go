package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/config"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
)

func TestNew_InitializesApp(t *testing.T) {
	app := createTestApp(t)

	if app.handlers == nil {
		t.Error("expected handlers to be initialized")
	}
	if app.repo == nil {
		t.Error("expected repo to be initialized")
	}
	if app.hub == nil || app.stopHub == nil {
		t.Error("expected hub to be running")
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "/nonexistent/path/db.sqlite"

	_, err := New(logger.New(), cfg, createTestTemplatesFS(), fstest.MapFS{}, testAuth(t))
	if err == nil {
		t.Error("expected error for invalid db path")
	}
}

func TestNew_FailsWithMissingTemplates(t *testing.T) {
	_, err := New(logger.New(), testConfig(), fstest.MapFS{}, fstest.MapFS{}, testAuth(t))
	if err == nil {
		t.Error("expected error for missing templates")
	}
}

func TestApp_Router_ServesRequests(t *testing.T) {
	app := createTestApp(t)
	server := httptest.NewServer(app.Router())
	defer server.Close()

	for _, path := range []string{"/admin/login", "/display", "/api/live-state"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 for %s, got %d", path, resp.StatusCode)
		}
	}
}

func TestApp_DrawReachesWebsocketHub(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()

	if err := app.repo.CreateCat(ctx, models.Cat{ID: 1, Name: "Mochi", Active: true}); err != nil {
		t.Fatalf("CreateCat failed: %v", err)
	}
	if _, err := app.handlers.Lottery.Draw(ctx, []int{1}); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if app.hub.ClientCount() != 0 {
		t.Errorf("expected no clients, got %d", app.hub.ClientCount())
	}
}

func TestApp_Close_Twice(t *testing.T) {
	app := createTestApp(t)
	app.Close()
	app.Close()
}

func TestApp_Run_ShutsDownOnCancel(t *testing.T) {
	app := createTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_Run_BindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	app := createTestApp(t)
	err = app.Run(context.Background(), ln.Addr().String())
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		t.Errorf("expected bind error, got %v", err)
	}
}

func TestApp_Run_ConfiguredBaseURLWins(t *testing.T) {
	app := createTestApp(t)
	app.cfg.BaseURL = "http://lottery.example:9000"
	ctx := context.Background()
	if err := app.repo.SetSetting(ctx, models.SettingBaseURL, "http://192.168.1.50:8080"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	cancel()
	if err := app.Run(runCtx, "127.0.0.1:0"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	val, _ := app.repo.GetSetting(ctx, models.SettingBaseURL)
	if val != "http://lottery.example:9000" {
		t.Errorf("expected configured base URL, got %q", val)
	}
}

func TestSetDefaultBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		force    bool
		want     string
	}{
		{"sets when empty", "", false, "http://192.168.1.100:8080"},
		{"replaces localhost", "http://localhost:8080", false, "http://192.168.1.100:8080"},
		{"keeps a LAN URL", "http://192.168.1.50:8080", false, "http://192.168.1.50:8080"},
		{"force overwrites", "http://192.168.1.50:8080", true, "http://192.168.1.100:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestApp(t)
			ctx := context.Background()
			if tt.existing != "" {
				if err := app.repo.SetSetting(ctx, models.SettingBaseURL, tt.existing); err != nil {
					t.Fatalf("SetSetting failed: %v", err)
				}
			}

			app.setDefaultBaseURL(ctx, "http://192.168.1.100:8080", tt.force)

			val, err := app.repo.GetSetting(ctx, models.SettingBaseURL)
			if err != nil {
				t.Fatalf("GetSetting failed: %v", err)
			}
			if val != tt.want {
				t.Errorf("expected %q, got %q", tt.want, val)
			}
		})
	}
}

func TestSetDefaultBaseURL_HandlesRepoError(t *testing.T) {
	app := createTestApp(t)
	app.repo.DB().Close()

	// logs a warning, no panic
	app.setDefaultBaseURL(context.Background(), "http://192.168.1.100:8080", false)
}

func TestSetDefaultBaseURL_ReadFailureKeepsStoredValue(t *testing.T) {
	app := createTestApp(t)
	ctx := context.Background()
	if err := app.repo.SetSetting(ctx, models.SettingBaseURL, "http://192.168.1.50:8080"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	app.setDefaultBaseURL(canceled, "http://192.168.1.100:8080", true)

	val, err := app.repo.GetSetting(ctx, models.SettingBaseURL)
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if val != "http://192.168.1.50:8080" {
		t.Errorf("expected stored value to survive, got %q", val)
	}
}

func TestListenURL(t *testing.T) {
	host := func() string { return "192.168.1.100" }
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "http://192.168.1.100:8080"},
		{"0.0.0.0:8080", "http://192.168.1.100:8080"},
		{"[::]:8080", "http://192.168.1.100:8080"},
		{"127.0.0.1:44263", "http://127.0.0.1:44263"},
		{"lottery.local:9000", "http://lottery.local:9000"},
		{"[fe80::1]:8080", "http://[fe80::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := listenURL(tt.addr, host); got != tt.want {
				t.Errorf("listenURL(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

// ==================== LAN host ====================

func ipNet(s string) *net.IPNet {
	return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
}

func TestPreferredHost(t *testing.T) {
	up := net.FlagUp
	tests := []struct {
		name   string
		ifaces []ifaceAddrs
		want   string
	}{
		{"no interfaces", nil, "localhost"},
		{
			"private address preferred over public",
			[]ifaceAddrs{{flags: up, addrs: []net.Addr{ipNet("8.8.8.8"), ipNet("192.168.1.20")}}},
			"192.168.1.20",
		},
		{
			"private on a later interface still wins",
			[]ifaceAddrs{
				{flags: up, addrs: []net.Addr{ipNet("203.0.113.7")}},
				{flags: up, addrs: []net.Addr{ipNet("10.0.0.9")}},
			},
			"10.0.0.9",
		},
		{"172.16/12 is private", []ifaceAddrs{{flags: up, addrs: []net.Addr{ipNet("172.20.0.5")}}}, "172.20.0.5"},
		{"public fallback", []ifaceAddrs{{flags: up, addrs: []net.Addr{ipNet("203.0.113.7")}}}, "203.0.113.7"},
		{
			"down and loopback interfaces skipped",
			[]ifaceAddrs{
				{flags: 0, addrs: []net.Addr{ipNet("10.0.0.1")}},
				{flags: up | net.FlagLoopback, addrs: []net.Addr{ipNet("127.0.0.1")}},
			},
			"localhost",
		},
		{"IPAddr accepted", []ifaceAddrs{{flags: up, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("10.1.2.3")}}}}, "10.1.2.3"},
		{"IPv6 ignored", []ifaceAddrs{{flags: up, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("fe80::1")}}}}, "localhost"},
		{"unknown addr type ignored", []ifaceAddrs{{flags: up, addrs: []net.Addr{&net.UnixAddr{Name: "/tmp/s"}}}}, "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preferredHost(tt.ifaces); got != tt.want {
				t.Errorf("preferredHost() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLANHost_RealInterfaces(t *testing.T) {
	host := lanHost()
	if host != "localhost" && net.ParseIP(host) == nil {
		t.Errorf("expected an IP or localhost, got %q", host)
	}
}

// Helper functions

func testConfig() *config.Config {
	return &config.Config{
		DatabaseURL:     ":memory:",
		ShutdownTimeout: 2 * time.Second,
	}
}

func testAuth(t *testing.T) *auth.Auth {
	t.Helper()
	a, err := auth.NewWithCost("test-password", 4)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	return a
}

func createTestTemplatesFS() fstest.MapFS {
	page := func(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s)} }
	return fstest.MapFS{
		"index.html":           page(`<html><body>Index</body></html>`),
		"display.html":         page(`<html><body>{{.State.Phase}} {{ago .State.UpdatedAt}}</body></html>`),
		"admin/login.html":     page(`<html><body>Login</body></html>`),
		"admin/layout.html":    page(`{{define "admin"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		"admin/dashboard.html": page(`{{define "content"}}Dashboard{{end}}`),
	}
}

func createTestApp(t *testing.T) *App {
	t.Helper()
	app, err := New(logger.New(), testConfig(), createTestTemplatesFS(), fstest.MapFS{}, testAuth(t))
	if err != nil {
		t.Fatalf("failed to create test app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}
