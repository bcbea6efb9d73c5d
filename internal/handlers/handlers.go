package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/bcrypt"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/services"
	"github.com/u83213089-oss/cat-lottery/internal/websocket"
)

// Services groups the business logic the handlers delegate to
type Services struct {
	Cats       services.CatServicer
	Applicants services.ApplicantServicer
	Lottery    services.LotteryServicer
	Settings   services.SettingsServicer
	Display    services.DisplayServicer
}

// Handlers serves the HTML pages, the JSON API and the websocket endpoint
type Handlers struct {
	Services
	Auth *auth.Auth
	Hub  *websocket.Hub
	Log  HTTPLogger

	pages  map[string]pageTemplate
	static http.Handler
}

// HTTPLogger reports whether request logging is switched on
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// NoopHTTPLogger never logs requests
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
}

// Page names
const (
	pageIndex     = "index"
	pageDisplay   = "display"
	pageLogin     = "login"
	pageDashboard = "dashboard"
)

type pageTemplate struct {
	tmpl  *template.Template
	entry string
}

// pageFiles lists the files each page is parsed from and the template executed
var pageFiles = []struct {
	name  string
	entry string
	files []string
}{
	{pageIndex, "index.html", []string{"index.html"}},
	{pageDisplay, "display.html", []string{"display.html"}},
	{pageLogin, "login.html", []string{"admin/login.html"}},
	{pageDashboard, "admin", []string{"admin/layout.html", "admin/dashboard.html"}},
}

var templateFuncs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
}

// New parses every page template up front and fails on the first bad one.
// staticFS may be nil, in which case /static/ is not mounted.
func New(svc Services, templatesFS, staticFS fs.FS, adminAuth *auth.Auth, hub *websocket.Hub, log HTTPLogger) (*Handlers, error) {
	pages, err := loadPages(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	h := &Handlers{
		Services: svc,
		Auth:     adminAuth,
		Hub:      hub,
		Log:      log,
		pages:    pages,
	}
	if staticFS != nil {
		h.static = http.FileServer(http.FS(staticFS))
	}
	return h, nil
}

// TestPassword is the admin password used by NewForTesting
const TestPassword = "test-password"

// NewForTesting builds Handlers with no templates, enough for the JSON API
func NewForTesting(svc Services) *Handlers {
	testAuth, _ := auth.NewWithCost(TestPassword, bcrypt.MinCost)
	return &Handlers{
		Services: svc,
		Auth:     testAuth,
		Log:      NoopHTTPLogger{},
	}
}

func loadPages(templatesFS fs.FS) (map[string]pageTemplate, error) {
	pages := make(map[string]pageTemplate, len(pageFiles))
	for _, p := range pageFiles {
		t, err := template.New(p.name).Funcs(templateFuncs).ParseFS(templatesFS, p.files...)
		if err != nil {
			return nil, fmt.Errorf("%s template: %w", p.name, err)
		}
		if t.Lookup(p.entry) == nil {
			return nil, fmt.Errorf("%s template: %q is not defined", p.name, p.entry)
		}
		pages[p.name] = pageTemplate{tmpl: t, entry: p.entry}
	}
	return pages, nil
}

func (h *Handlers) render(w http.ResponseWriter, page string, data any) {
	p := h.pages[page]
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, p.entry, data); err != nil {
		slog.Error("Template render failed", "page", page, "error", err)
	}
}
