package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/u83213089-oss/cat-lottery/internal/app"
	"github.com/u83213089-oss/cat-lottery/internal/auth"
	"github.com/u83213089-oss/cat-lottery/internal/browser"
	"github.com/u83213089-oss/cat-lottery/internal/config"
	"github.com/u83213089-oss/cat-lottery/internal/logger"
	"github.com/u83213089-oss/cat-lottery/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var version = "dev"

func showBanner() {
	logo := []string{
		`     /\_/\      ____      _     _          _   _                 `,
		`    ( o.o )    / ___|__ _| |_  | |    ___ | |_| |_ ___ _ __ _   _ `,
		`     > ^ <    | |   / _' | __| | |   / _ \| __| __/ _ \ '__| | | |`,
		`    /     \   | |__| (_| | |_  | |__| (_) | |_| ||  __/ |  | |_| |`,
		`   (_______)   \____\__,_|\__| |_____\___/ \__|\__\___|_|   \__, |`,
		`                                                            |___/ `,
	}
	width := 68
	border := strings.Repeat("═", width)

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Printf("  %s║%s%-*s%s║%s\n", cyan, yellow, width, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DatabaseURL, "SQLite database path or postgres:// URL")
	adminPw := flag.String("adminpw", cfg.AdminPassword, "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	openBrowser := flag.Bool("open", false, "Open the admin console and display in a browser")
	noBanner := flag.Bool("nobanner", false, "Skip the startup banner")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Cat Lottery - live adoption draw for cat adoption events

Usage:
  catlottery [options]

Options:
  -port int      HTTP server port (env PORT, default 8080)
  -db string     SQLite path or postgres:// URL (env DATABASE_URL, default "catlottery.db")
  -adminpw str   Admin password (env ADMIN_PASSWORD, auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (env LOG_LEVEL, default "info")
  -open          Open the admin console and display in a browser
  -nobanner      Skip the startup banner
  -version       Show version and exit
  -help          Show this help message

Environment only:
  BASE_URL               URL phones use to reach the display (QR code)
  LOG_FORMAT             text or json
  EXCLUDE_PRIOR_WINNERS  default for the prior-winner exclusion setting
  SHUTDOWN_TIMEOUT       graceful shutdown limit (default 10s)

Examples:
  catlottery                                    # Run on port 8080 with catlottery.db
  catlottery -port 80 -db /data/lottery.db      # Custom port and database
  catlottery -db postgres://u:p@db/lottery      # Use Postgres
  catlottery -adminpw meow123 -open             # Fixed password, open browser

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("catlottery %s\n", version)
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.DatabaseURL = *dbPath
	cfg.LogLevel = *logLevel

	if !*noBanner {
		showBanner()
	}

	level := logger.ParseLevel(cfg.LogLevel)
	appLog := logger.NewWithOptions(os.Stderr, level, logger.ParseFormat(cfg.LogFormat))
	slog.SetDefault(appLog.Slog())
	if level == slog.LevelDebug {
		appLog.EnableHTTPLogging()
	}

	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth, err := auth.New(password)
	if err != nil {
		log.Fatal("Failed to set admin password: ", err)
	}

	a, err := app.New(appLog, cfg, web.Templates(), web.Static(), adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	fmt.Printf("%s%s  Admin password:%s %s%s%s\n\n", bold, green, reset, yellow, password, reset)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(ctx, addr)
	}()

	if *openBrowser {
		go func() {
			// give the listener a moment to bind
			time.Sleep(200 * time.Millisecond)
			local := fmt.Sprintf("http://localhost:%d", cfg.Port)
			if err := browser.OpenAll(local+"/admin", local+"/display"); err != nil {
				appLog.Warn("Failed to open browser", "error", err)
			}
		}()
	}

	if err := <-serverErr; err != nil {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	appLog.Info("Server stopped")
}
