// Package logging provides file-based logging for crew-talk.
// It outputs logs to both a global log file (.talk/logs/talk.log)
// and tab-specific log files (.talk/logs/tab-<tab>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/crew-talk/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger wraps slog levels with file-based output support.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock      domain.Clock
	globalFile *os.File
	tabFiles   map[domain.Tab]*os.File
	talkDir    string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes to the talk log directory.
// If talkDir is empty, logging is disabled (returns a no-op logger).
func New(talkDir string, level slog.Level) *Logger {
	return &Logger{
		clock:    domain.RealClock{},
		talkDir:  talkDir,
		level:    level,
		tabFiles: make(map[domain.Tab]*os.File),
	}
}

// WithClock sets the clock used to timestamp entries.
func (l *Logger) WithClock(clock domain.Clock) *Logger {
	l.clock = clock
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensureLogsDir creates the logs directory if it doesn't exist.
func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.talkDir, "logs"), 0o750)
}

// ensureGlobalFile opens or returns the global log file.
// The caller must hold l.mu.
func (l *Logger) ensureGlobalFile() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.talkDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureTabFile opens or returns the tab log file.
// The caller must hold l.mu.
func (l *Logger) ensureTabFile(tab domain.Tab) (*os.File, error) {
	if f, ok := l.tabFiles[tab]; ok {
		return f, nil
	}

	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.TabLogPath(l.talkDir, tab)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open tab log file: %w", err)
	}
	l.tabFiles[tab] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for tab, f := range l.tabFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.tabFiles, tab)
	}
	return lastErr
}

// formatLog formats a log entry in the specified format.
// Format: [2026-03-01 12:30:00] [INFO] [tab-faqs] [reply] message
func formatLog(t time.Time, level slog.Level, tab domain.Tab, category, msg string) string {
	scope := "global"
	if tab != "" {
		scope = "tab-" + string(tab)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes a log entry to appropriate files based on tab.
// An empty tab logs only to the global log.
func (l *Logger) log(level slog.Level, tab domain.Tab, category, msg string) {
	if l.talkDir == "" {
		return // Logging disabled
	}

	if level < l.level {
		return
	}

	entry := formatLog(l.clock.Now(), level, tab, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}

	if tab != "" {
		if tf, err := l.ensureTabFile(tab); err == nil {
			_, _ = io.WriteString(tf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(tab domain.Tab, category, msg string) {
	l.log(slog.LevelInfo, tab, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(tab domain.Tab, category, msg string) {
	l.log(slog.LevelDebug, tab, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(tab domain.Tab, category, msg string) {
	l.log(slog.LevelWarn, tab, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(tab domain.Tab, category, msg string) {
	l.log(slog.LevelError, tab, category, msg)
}
