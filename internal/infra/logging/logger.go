// Package logging provides file-based logging for issuebot.
// It outputs logs to both a global log file (<data_dir>/logs/bot.log)
// and chat-specific log files (<data_dir>/logs/chat-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/runoshun/issuebot/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes formatted entries to the data directory.
// Fields are ordered to minimize memory padding.
type Logger struct {
	console    io.Writer
	globalFile *os.File
	chatFiles  map[int64]*os.File
	dataDir    string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes below dataDir/logs.
// If dataDir is empty, file output is disabled.
func New(dataDir string, level slog.Level) *Logger {
	return &Logger{
		dataDir:   dataDir,
		level:     level,
		chatFiles: make(map[int64]*os.File),
	}
}

// WithConsole mirrors every entry to w, typically stderr.
func (l *Logger) WithConsole(w io.Writer) *Logger {
	l.console = w
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

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.dataDir, "logs"), 0o750)
}

// ensureGlobalFile opens or returns the global log file. Callers hold l.mu.
func (l *Logger) ensureGlobalFile() (*os.File, error) {
	if l.globalFile != nil {
		return l.globalFile, nil
	}
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.GlobalLogPath(l.dataDir)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureChatFile opens or returns the log file of one chat. Callers hold l.mu.
func (l *Logger) ensureChatFile(chatID int64) (*os.File, error) {
	if f, ok := l.chatFiles[chatID]; ok {
		return f, nil
	}
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := domain.ChatLogPath(l.dataDir, chatID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open chat log file: %w", err)
	}
	l.chatFiles[chatID] = f
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
	for id, f := range l.chatFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.chatFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2026-10-18 09:32:51] [INFO] [chat--100123] [category] message
func formatLog(t time.Time, level slog.Level, chatID int64, category, msg string) string {
	chatStr := "global"
	if chatID != 0 {
		chatStr = fmt.Sprintf("chat-%d", chatID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		chatStr,
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

// log writes an entry to the global log and, for a non-zero chatID, to the
// chat log as well.
func (l *Logger) log(level slog.Level, chatID int64, category, msg string) {
	if level < l.level {
		return
	}
	entry := formatLog(time.Now(), level, chatID, category, msg)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil {
		_, _ = io.WriteString(l.console, entry)
	}
	if l.dataDir == "" {
		return
	}
	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if chatID != 0 {
		if cf, err := l.ensureChatFile(chatID); err == nil {
			_, _ = io.WriteString(cf, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(chatID int64, category, msg string) {
	l.log(slog.LevelInfo, chatID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(chatID int64, category, msg string) {
	l.log(slog.LevelDebug, chatID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(chatID int64, category, msg string) {
	l.log(slog.LevelWarn, chatID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(chatID int64, category, msg string) {
	l.log(slog.LevelError, chatID, category, msg)
}
