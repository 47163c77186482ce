package server

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warning", "error"
}

// ConsoleLog keeps the most recent console messages in a fixed-size ring
type ConsoleLog struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	next     int
	full     bool
}

// NewConsoleLog creates a console log holding at most capacity messages
func NewConsoleLog(capacity int) *ConsoleLog {
	if capacity < 1 {
		capacity = 1
	}
	return &ConsoleLog{messages: make([]ConsoleMessage, capacity)}
}

// Append adds a message, overwriting the oldest one when the ring is full
func (cl *ConsoleLog) Append(msg ConsoleMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.messages[cl.next] = msg
	cl.next = (cl.next + 1) % len(cl.messages)
	if cl.next == 0 {
		cl.full = true
	}
}

// Messages returns the retained messages, oldest first
func (cl *ConsoleLog) Messages() []ConsoleMessage {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.full {
		return append([]ConsoleMessage(nil), cl.messages[:cl.next]...)
	}
	out := make([]ConsoleMessage, 0, len(cl.messages))
	out = append(out, cl.messages[cl.next:]...)
	return append(out, cl.messages[:cl.next]...)
}

// ConsoleHandler is a slog.Handler that records every log line in a ConsoleLog
// and passes it on to an optional next handler (usually the server's stderr log).
type ConsoleHandler struct {
	log   *ConsoleLog
	next  slog.Handler
	level slog.Leveler
	attrs []slog.Attr
}

// NewConsoleHandler creates a handler feeding log. next may be nil.
func NewConsoleHandler(log *ConsoleLog, next slog.Handler, level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{log: log, next: next, level: level}
}

func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level.Level() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		h.log.Append(ConsoleMessage{
			Message:   formatRecord(r, h.attrs),
			Timestamp: r.Time,
			Level:     levelName(r.Level),
		})
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

// WithGroup only forwards the group; console lines are flat
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

// formatRecord renders "msg key=value ..." for the console
func formatRecord(r slog.Record, attrs []slog.Attr) string {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(a.Value.String())
		return true
	}
	for _, a := range attrs {
		write(a)
	}
	r.Attrs(write)
	return sb.String()
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
