package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/config"
	"github.com/u83213089-oss/cat-lottery/internal/handlers"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/internal/models"
	"github.com/u83213089-oss/cat-lottery/internal/repository"
	"github.com/u83213089-oss/cat-lottery/internal/services"
	"github.com/u83213089-oss/cat-lottery/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *websocket.Hub
	stopHub  context.CancelFunc
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo, cfg.ExcludePriorWinners)
	catService := services.NewCatService(log, repo)
	applicantService := services.NewApplicantService(log, repo, nil)
	lotteryService := services.NewLotteryService(log, repo, settingsService, nil)
	displayService := services.NewDisplayService(settingsService)

	// The hub reads the current state for new clients; the lottery pushes every change to it
	hub := websocket.New(log, lotteryService)
	ctx, cancel := context.WithCancel(context.Background())
	hub.Start(ctx)
	lotteryService.SetBroadcaster(hub)

	svc := handlers.Services{
		Cats:       catService,
		Applicants: applicantService,
		Lottery:    lotteryService,
		Settings:   settingsService,
		Display:    displayService,
	}
	h, err := handlers.New(svc, templatesFS, staticFS, adminAuth, hub, log)
	if err != nil {
		cancel()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		hub:      hub,
		stopHub:  cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the websocket hub and closes the database
func (a *App) Close() {
	if a.stopHub != nil {
		a.stopHub()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run serves HTTP on addr until ctx is canceled, then shuts down gracefully
func (a *App) Run(ctx context.Context, addr string) error {
	baseURL := a.cfg.BaseURL
	if baseURL == "" {
		baseURL = listenURL(addr, lanHost)
	}
	// The stored URL must be written even when Run is handed an already canceled context
	a.setDefaultBaseURL(context.WithoutCancel(ctx), baseURL, a.cfg.BaseURL != "")

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", "url", baseURL)
		a.log.Info("Admin URL", "url", baseURL+"/admin")
		a.log.Info("Display URL", "url", baseURL+"/display")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down", "timeout", a.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	// Hijacked websocket connections are not tracked by Shutdown; stopping the hub closes them
	a.stopHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// setDefaultBaseURL stores baseURL as the display base URL when none is
// configured, when the stored value points at localhost (useless for a QR code
// scanned from a phone), or when force is set.
func (a *App) setDefaultBaseURL(ctx context.Context, baseURL string, force bool) {
	existing, err := a.repo.GetSetting(ctx, models.SettingBaseURL)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		a.log.Warn("Failed to read base_url", "error", err)
		return
	}

	needsUpdate := force || existing == "" || strings.Contains(existing, "localhost")
	if !needsUpdate || existing == baseURL {
		return
	}
	if err := a.repo.SetSetting(ctx, models.SettingBaseURL, baseURL); err != nil {
		a.log.Warn("Failed to set default base_url", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}

// listenURL turns a listen address into the URL shown to clients. A wildcard
// or missing host is replaced by host().
func listenURL(addr string, host func() string) string {
	h, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = host()
	}
	return "http://" + net.JoinHostPort(h, port)
}
