package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogEntry is one line of the log panel. Consecutive records with the same
// level and message share an entry; Repeat counts them.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Source  string
	Repeat  int
}

// LogBuffer keeps the last N log lines for the terminal panel. A halted or
// spinning ROM tends to log the same line every frame, so runs of identical
// records are folded instead of flushing older history out of the ring.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int // oldest slot once the ring is full
}

// NewLogBuffer returns a buffer holding up to capacity distinct entries.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &LogBuffer{entries: make([]LogEntry, 0, capacity)}
}

// Add appends entry, or folds it into the newest entry when both render the
// same line.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if entry.Repeat < 1 {
		entry.Repeat = 1
	}
	if len(lb.entries) > 0 {
		last := &lb.entries[lb.newest()]
		if last.Level == entry.Level && last.Message == entry.Message && last.Source == entry.Source {
			last.Repeat += entry.Repeat
			last.Time = entry.Time
			return
		}
	}

	if len(lb.entries) < cap(lb.entries) {
		lb.entries = append(lb.entries, entry)
		return
	}
	lb.entries[lb.next] = entry
	lb.next = (lb.next + 1) % len(lb.entries)
}

func (lb *LogBuffer) newest() int {
	n := len(lb.entries)
	if n < cap(lb.entries) {
		return n - 1
	}
	return (lb.next - 1 + n) % n
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (lb *LogBuffer) Recent(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	n := len(lb.entries)
	if n == 0 {
		return nil
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]LogEntry, limit)
	head := lb.newest()
	for i := range out {
		out[i] = lb.entries[(head-i+n)%n]
	}
	return out
}

// Len returns the number of distinct entries held.
func (lb *LogBuffer) Len() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.entries)
}

// Clear drops all entries.
func (lb *LogBuffer) Clear() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.entries = lb.entries[:0]
	lb.next = 0
}

// LogBufferHandler is a slog.Handler that captures logs to a LogBuffer
type LogBufferHandler struct {
	buffer *LogBuffer
	level  slog.Leveler
	prefix string // attributes bound with WithAttrs, already formatted
	group  string
}

// NewLogBufferHandler creates a new handler that writes to the given buffer.
// Passing a *slog.LevelVar lets the level change while the handler is installed.
func NewLogBufferHandler(buffer *LogBuffer, level slog.Leveler) *LogBufferHandler {
	return &LogBufferHandler{
		buffer: buffer,
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level
func (h *LogBufferHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle processes a log record
func (h *LogBufferHandler) Handle(_ context.Context, record slog.Record) error {
	message := record.Message + h.prefix
	record.Attrs(func(a slog.Attr) bool {
		message += h.formatAttr(a)
		return true
	})

	entry := LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: message,
		Source:  h.group,
	}

	h.buffer.Add(entry)
	return nil
}

func (h *LogBufferHandler) formatAttr(a slog.Attr) string {
	if h.group != "" {
		return fmt.Sprintf(" %s.%s=%v", h.group, a.Key, a.Value)
	}
	return fmt.Sprintf(" %s=%v", a.Key, a.Value)
}

// WithAttrs returns a handler that appends attrs to every message.
func (h *LogBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	for _, a := range attrs {
		clone.prefix += h.formatAttr(a)
	}
	return &clone
}

// WithGroup returns a handler that prefixes attribute keys with name.
func (h *LogBufferHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

// FormatLogEntry formats a log entry for display
func FormatLogEntry(entry LogEntry) string {
	levelStr := ""
	switch entry.Level {
	case slog.LevelDebug:
		levelStr = "DBG"
	case slog.LevelInfo:
		levelStr = "INF"
	case slog.LevelWarn:
		levelStr = "WRN"
	case slog.LevelError:
		levelStr = "ERR"
	default:
		levelStr = "???"
	}

	timeStr := entry.Time.Format("15:04:05")
	if entry.Repeat > 1 {
		return fmt.Sprintf("%s [%s] %s (x%d)", timeStr, levelStr, entry.Message, entry.Repeat)
	}
	return fmt.Sprintf("%s [%s] %s", timeStr, levelStr, entry.Message)
}
