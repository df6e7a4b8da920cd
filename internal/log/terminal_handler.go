package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const timeLayout = "15:04:05.000"

const (
	colorReset  = "\033[0m"
	colorFaint  = "\033[2m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// TerminalHandler is an slog.Handler that renders each record as a single
// coloured line for interactive use:
//
//	15:04:05.000 INF catalog sync complete inserted=12
type TerminalHandler struct {
	out    io.Writer
	minLvl slog.Leveler
	prefix string      // dotted group path applied to attribute keys
	preset []slog.Attr // attrs accumulated via WithAttrs
	mu     *sync.Mutex
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions) *TerminalHandler {
	h := &TerminalHandler{
		out:    w,
		minLvl: slog.LevelInfo,
		mu:     &sync.Mutex{},
	}
	if opts != nil && opts.Level != nil {
		h.minLvl = opts.Level
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.minLvl.Level()
}

// Handle renders the record and writes it as one line.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	line.Grow(256)

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&line, "%s%s%s ", colorFaint, ts.Format(timeLayout), colorReset)

	color, label := levelStyle(r.Level)
	fmt.Fprintf(&line, "%s%s%s ", color, label, colorReset)
	fmt.Fprintf(&line, "%s%s%s", colorBold, r.Message, colorReset)

	for _, a := range h.preset {
		h.writeAttr(&line, h.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&line, h.prefix, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

// WithAttrs returns a handler that includes attrs on every record.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.preset = append(append([]slog.Attr(nil), h.preset...), attrs...)
	return &clone
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with name.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *TerminalHandler) writeAttr(line *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested = prefix + a.Key + "."
		}
		for _, member := range a.Value.Group() {
			h.writeAttr(line, nested, member)
		}
		return
	}

	fmt.Fprintf(line, " %s%s%s=%s%s",
		colorFaint, prefix, a.Key, colorReset, renderValue(a.Value))
}

func levelStyle(level slog.Level) (color, label string) {
	switch {
	case level < slog.LevelInfo:
		return colorCyan, "DBG"
	case level < slog.LevelWarn:
		return colorGreen, "INF"
	case level < slog.LevelError:
		return colorYellow, "WRN"
	default:
		return colorRed, "ERR"
	}
}

func renderValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && strings.ContainsAny(s, " \t\n\"\\") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
