package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds every request except the websocket upgrade
const requestTimeout = 60 * time.Second

// requestLogger writes one slog line per request while HTTP logging is on.
// The switch is checked per request so it can be flipped at runtime.
func (h *Handlers) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log == nil || !h.Log.IsHTTPLoggingEnabled() {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Router mounts the public pages, the display feed and the admin API
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, h.requestLogger, middleware.Recoverer, middleware.RedirectSlashes)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		if h.static != nil {
			r.Handle("/static/*", http.StripPrefix("/static/", h.static))
		}
		r.Get("/", h.handleIndex)
		r.Get("/display", h.handleDisplayPage)
		r.Get("/api/live-state", h.handleGetLiveState)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/login", h.handleLoginPage)
			r.Post("/login", h.handleLogin)
			r.Post("/logout", h.handleLogout)
			r.With(h.Auth.RequireAuth).Get("/", h.handleAdminDashboard)
		})
		r.Post("/api/admin-auth", h.handleAPILogin)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)

			r.Route("/live", func(r chi.Router) {
				r.Post("/preview", h.handlePreview)
				r.Post("/draw", h.handleDraw)
				r.Get("/draws", h.handleGetDraws)
			})

			r.Route("/cats", func(r chi.Router) {
				r.Get("/", h.handleGetCats)
				r.Post("/", h.handleCreateCat)
				r.Put("/{id}", h.handleUpdateCat)
				r.Delete("/{id}", h.handleDeleteCat)
			})

			r.Route("/applicants", func(r chi.Router) {
				r.Get("/", h.handleGetApplicants)
				r.Post("/", h.handleCreateApplicant)
				r.Delete("/{id}", h.handleDeleteApplicant)
				r.Put("/{id}/application", h.handleSetApplication)
			})

			r.Get("/settings", h.handleGetSettings)
			r.Post("/settings", h.handleUpdateSettings)
			r.Put("/settings", h.handleUpdateSettings)
			r.Get("/stats", h.handleGetStats)
			r.Get("/display-qr", h.handleGetDisplayQR)

			r.Post("/reset", h.handleResetDatabase)
			r.Post("/seed-mock-data", h.handleSeedMockData)
		})
	})

	return r
}
