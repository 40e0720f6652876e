package logger

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
)

// LogFilePath is the default log file, relative to the working directory (project root when run via go run ./cmd/viewer).
const LogFilePath = "logs/viewer.txt"

// maxLines bounds the in-memory history kept for the on-screen overlay.
const maxLines = 256

// Logger stores recent log lines in memory and appends every line to a file on disk and to a console writer.
// It is an slog.Handler so the rest of the code logs through *slog.Logger.
type Logger struct {
	mu      *sync.Mutex
	lines   *[]string
	path    string
	console io.Writer
	level   slog.Leveler
	attrs   []slog.Attr
	group   string
}

// New returns a Logger writing to path (LogFilePath when empty) and stderr, and ensures the log directory exists.
func New(path string, level slog.Leveler) *Logger {
	if path == "" {
		path = LogFilePath
	}
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	lines := make([]string, 0)
	return &Logger{
		mu:      &sync.Mutex{},
		lines:   &lines,
		path:    path,
		console: os.Stderr,
		level:   level,
	}
}

// SetConsole replaces the console writer (stderr by default). nil disables console output.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	l.console = w
	l.mu.Unlock()
}

// Slog wraps the handler in a *slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l)
}

// Enabled reports whether records at level are kept.
func (l *Logger) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if l.level != nil {
		threshold = l.level.Level()
	}
	return level >= threshold
}

// Handle formats r as one line prefixed with [timestamp] using computer time.
func (l *Logger) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	b.WriteString("[" + ts.Format("2006-01-02 15:04:05") + "] ")
	b.WriteString(r.Level.String())
	b.WriteString(" ")
	b.WriteString(r.Message)
	for _, a := range l.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, l.group, a)
		return true
	})
	line := b.String()

	l.mu.Lock()
	*l.lines = append(*l.lines, line)
	if len(*l.lines) > maxLines {
		*l.lines = (*l.lines)[len(*l.lines)-maxLines:]
	}
	console := l.console
	l.mu.Unlock()

	if console != nil {
		_, _ = io.WriteString(console, line+"\n")
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	_, _ = f.WriteString(line + "\n")
	return f.Close()
}

// WithAttrs returns a handler sharing this one's sinks with attrs appended to every record.
// The attrs keep the group that was open when they were added.
func (l *Logger) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *l
	c.attrs = append([]slog.Attr{}, l.attrs...)
	for _, a := range attrs {
		if l.group != "" {
			a = slog.Attr{Key: l.group, Value: slog.GroupValue(a)}
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

// WithGroup returns a handler that prefixes attribute keys with name.
func (l *Logger) WithGroup(name string) slog.Handler {
	if name == "" {
		return l
	}
	c := *l
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return &c
}

// Lines returns a copy of the stored lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(*l.lines))
	copy(out, *l.lines)
	return out
}

// writeAttr writes a as " key=value", flattening group values into dotted keys.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	switch {
	case key == "":
		key = prefix
	case prefix != "":
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	if key == "" {
		return
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
