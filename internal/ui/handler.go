package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// LevelTrace sits below slog.LevelDebug for the most verbose output.
const LevelTrace = slog.LevelDebug - 4

// levelOff is higher than any record level, so nothing is emitted.
const levelOff = slog.LevelError + 4

var levelColors = map[string]*color.Color{
	"TRACE": color.New(color.FgGreen),
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.Bold),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
}

// Handler is a slog.Handler that renders records as "[LEVEL] message",
// one line each, with attributes appended as key=value pairs. The level
// word is colored when color output is enabled.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewHandler creates a handler writing to out that drops records below
// the given level.
func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		out:   out,
		level: level,
	}
}

// NewLogger creates a slog.Logger backed by a Handler.
func NewLogger(out io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewHandler(out, level))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	word := levelWord(r.Level)
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(levelColors[word].Sprintf("%-5s", word))
	b.WriteString("] ")
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		appendAttr(&b, a, "")
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, a, prefix)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// appendAttr writes one attribute. prefix is the dotted group path the
// attribute belongs under, empty for none.
func appendAttr(b *strings.Builder, a slog.Attr, prefix string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value)
}

// WithAttrs qualifies the attribute keys with the groups open at this
// point; stored attributes are therefore already fully named.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a.Key = strings.Join(h.groups, ".") + "." + a.Key
		}
		h2.attrs = append(h2.attrs, a)
	}
	return h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) clone() *Handler {
	return &Handler{
		mu:     h.mu,
		out:    h.out,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func levelWord(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "TRACE"
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel converts a --log-level flag value to a slog level.
// Recognized names are off, error, warn, info, debug and trace,
// case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return levelOff, nil
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
