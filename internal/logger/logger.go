// Package logger wraps log/slog behind the small interface the services and
// handlers log through.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger defines the logging interface used throughout the application
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	SetLevel(level slog.Level)
	GetLevel() slog.Level
	EnableHTTPLogging()
	DisableHTTPLogging()
	IsHTTPLoggingEnabled() bool
}

// Format selects the slog handler used for output
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// SlogLogger is the slog-backed Logger. Children made by With share the
// parent's level and HTTP logging switch.
type SlogLogger struct {
	sl    *slog.Logger
	level *slog.LevelVar
	http  *atomic.Bool
}

var _ Logger = (*SlogLogger)(nil)

// New logs text at info level to stdout
func New() *SlogLogger {
	return NewWithLevel(slog.LevelInfo)
}

func NewWithLevel(level slog.Level) *SlogLogger {
	return NewWithOptions(os.Stdout, level, FormatText)
}

// NewWithOptions logs to w in the given format
func NewWithOptions(w io.Writer, level slog.Level, format Format) *SlogLogger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	opts := &slog.HandlerOptions{Level: lv}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	return &SlogLogger{sl: slog.New(h), level: lv, http: new(atomic.Bool)}
}

// ParseLevel accepts slog level names in any case, plus "warning".
// Anything unrecognised is info.
func ParseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseFormat returns FormatJSON for "json" in any case, else FormatText
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// Slog exposes the underlying logger, e.g. for slog.SetDefault
func (l *SlogLogger) Slog() *slog.Logger { return l.sl }

func (l *SlogLogger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{sl: l.sl.With(args...), level: l.level, http: l.http}
}

func (l *SlogLogger) SetLevel(level slog.Level) { l.level.Set(level) }
func (l *SlogLogger) GetLevel() slog.Level      { return l.level.Level() }

func (l *SlogLogger) EnableHTTPLogging()         { l.http.Store(true) }
func (l *SlogLogger) DisableHTTPLogging()        { l.http.Store(false) }
func (l *SlogLogger) IsHTTPLoggingEnabled() bool { return l.http.Load() }
