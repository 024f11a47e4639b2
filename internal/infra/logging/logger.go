// Package logging provides the application logger.
// Events go to a logfmt file under the state directory and, optionally, to a
// styled console sink. Both are charmbracelet/log loggers exposed as slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// AppPrefix is printed in front of every console line.
const AppPrefix = "todo"

// Options configures a Logger.
type Options struct {
	Console io.Writer // Styled sink for warnings and errors (nil = none)
	Path    string    // Log file (empty = no file)
	Level   slog.Level
}

// Logger fans log events to a file sink and an optional console sink.
// Fields are ordered to minimize memory padding.
type Logger struct {
	file           *lazyFile
	fileSink       *charmLog.Logger
	consoleSink    *charmLog.Logger
	slog           *slog.Logger
	mu             sync.Mutex
	consoleEnabled bool
}

// New creates a Logger. The log file is opened on the first write.
func New(opts Options) *Logger {
	l := &Logger{consoleEnabled: true}
	level := charmLog.Level(opts.Level)

	if opts.Path != "" {
		l.file = &lazyFile{path: opts.Path}
		l.fileSink = charmLog.NewWithOptions(l.file, charmLog.Options{
			Level:           level,
			Prefix:          AppPrefix,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       charmLog.LogfmtFormatter,
		})
	}
	if opts.Console != nil {
		// The console only carries warnings and errors.
		l.consoleSink = charmLog.NewWithOptions(opts.Console, charmLog.Options{
			Level:     max(level, charmLog.WarnLevel),
			Prefix:    AppPrefix,
			Formatter: charmLog.TextFormatter,
		})
	}
	l.slog = slog.New(&fanout{logger: l})
	return l
}

// ParseLevel parses a log level string into slog.Level.
// Unknown values fall back to info.
func ParseLevel(levelStr string) slog.Level {
	lvl, err := charmLog.ParseLevel(strings.TrimSpace(levelStr))
	if err != nil {
		return slog.LevelInfo
	}
	return slog.Level(lvl)
}

// Slog returns the logger as *slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Path returns the log file path, or "" when file logging is off.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.path
}

// SetConsoleEnabled toggles the console sink. The TUI turns it off while it
// owns the terminal.
func (l *Logger) SetConsoleEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consoleEnabled = enabled
}

// Close closes the log file if it was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) sinks() []*charmLog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	sinks := make([]*charmLog.Logger, 0, 2)
	if l.fileSink != nil {
		sinks = append(sinks, l.fileSink)
	}
	if l.consoleSink != nil && l.consoleEnabled {
		sinks = append(sinks, l.consoleSink)
	}
	return sinks
}

// fanout is the slog.Handler behind Slog.
type fanout struct {
	logger *Logger
	attrs  []slog.Attr
	groups []string
}

func (h *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.logger.sinks() {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, s := range h.logger.sinks() {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		var handler slog.Handler = s
		if len(h.attrs) > 0 {
			handler = handler.WithAttrs(h.attrs)
		}
		for _, g := range h.groups {
			handler = handler.WithGroup(g)
		}
		if err := handler.Handle(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (h *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &next
}

func (h *fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

// lazyFile opens its file on the first write.
type lazyFile struct {
	f    *os.File
	path string
	mu   sync.Mutex
}

func (w *lazyFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
			return 0, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
		if err != nil {
			return 0, fmt.Errorf("open log file: %w", err)
		}
		w.f = f
	}
	return w.f.Write(p)
}

func (w *lazyFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}
