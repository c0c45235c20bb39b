// Package logging provides the slog handler used by bitfieldgen.
package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var bufPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

type PrettyHandlerOptions struct {
	Level      slog.Leveler
	UseColor   bool
	ShowTime   bool
	TimeFormat string

	// LevelWidth pads level names. Zero means 5, negative disables padding.
	LevelWidth int

	// FieldSeparator separates time, level, message and attributes.
	FieldSeparator string
}

func DefaultOptions() PrettyHandlerOptions {
	return PrettyHandlerOptions{
		Level:          slog.LevelInfo,
		TimeFormat:     time.TimeOnly,
		LevelWidth:     5,
		FieldSeparator: " ",
	}
}

// PrettyHandler writes one line per record:
//
//	ERROR status.go: generation failed err="..." file=status.go
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	writer io.Writer
	mu     *sync.Mutex
	prefix string // group prefix for attribute keys
	attrs  []slog.Attr

	colorTime    func(...any) string
	colorLevel   map[slog.Level]func(...any) string
	colorMessage func(...any) string
	colorKey     func(...any) string
}

func NewPrettyHandler(w io.Writer, opts *PrettyHandlerOptions) *PrettyHandler {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.TimeFormat == "" {
		opts.TimeFormat = time.TimeOnly
	}
	if opts.FieldSeparator == "" {
		opts.FieldSeparator = " "
	}
	if opts.LevelWidth == 0 {
		opts.LevelWidth = 5
	}

	h := &PrettyHandler{
		opts:   *opts,
		writer: w,
		mu:     &sync.Mutex{},
	}
	h.initColorFuncs()

	return h
}

func (h *PrettyHandler) initColorFuncs() {
	if !h.opts.UseColor {
		noColor := func(a ...any) string { return fmt.Sprint(a...) }
		h.colorTime = noColor
		h.colorMessage = noColor
		h.colorKey = noColor
		h.colorLevel = nil
		return
	}

	sprint := func(attrs ...color.Attribute) func(...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}

	h.colorTime = sprint(color.FgHiBlack)
	h.colorMessage = sprint(color.Bold)
	h.colorKey = sprint(color.FgCyan)

	h.colorLevel = map[slog.Level]func(...any) string{
		slog.LevelDebug: sprint(color.FgMagenta),
		slog.LevelInfo:  sprint(color.FgBlue),
		slog.LevelWarn:  sprint(color.FgYellow),
		slog.LevelError: sprint(color.FgRed, color.Bold),
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()

	if h.opts.ShowTime && !r.Time.IsZero() {
		buf.WriteString(h.colorTime(r.Time.Format(h.opts.TimeFormat)))
		buf.WriteString(h.opts.FieldSeparator)
	}

	buf.WriteString(h.formatLevel(r.Level))
	buf.WriteString(h.opts.FieldSeparator)
	buf.WriteString(h.colorMessage(r.Message))

	for _, attr := range h.attrs {
		h.writeAttr(buf, "", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(buf, h.prefix, attr)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	newHandler := h.clone()
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		newHandler.attrs = append(newHandler.attrs, attr)
	}
	return newHandler
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	newHandler := h.clone()
	newHandler.prefix = h.prefix + name + "."
	return newHandler
}

// clone shares the writer lock so handlers derived from one another never
// interleave lines.
func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		opts:         h.opts,
		writer:       h.writer,
		mu:           h.mu,
		prefix:       h.prefix,
		attrs:        append([]slog.Attr(nil), h.attrs...),
		colorTime:    h.colorTime,
		colorLevel:   h.colorLevel,
		colorMessage: h.colorMessage,
		colorKey:     h.colorKey,
	}
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	levelStr := strings.ToUpper(level.String())

	if h.opts.LevelWidth > 0 {
		levelStr = fmt.Sprintf("%-*s", h.opts.LevelWidth, levelStr)
	}

	if colorFunc, ok := h.colorLevel[level]; ok {
		return colorFunc(levelStr)
	}
	return levelStr
}

func (h *PrettyHandler) writeAttr(buf *bytes.Buffer, prefix string, attr slog.Attr) {
	value := attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if value.Kind() == slog.KindGroup {
		p := prefix
		if attr.Key != "" {
			p += attr.Key + "."
		}
		for _, a := range value.Group() {
			h.writeAttr(buf, p, a)
		}
		return
	}

	var s string
	switch value.Kind() {
	case slog.KindTime:
		s = value.Time().Format(h.opts.TimeFormat)
	case slog.KindString:
		s = value.String()
	default:
		s = fmt.Sprint(value.Any())
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		s = strconv.Quote(s)
	}

	buf.WriteString(h.opts.FieldSeparator)
	buf.WriteString(h.colorKey(prefix + attr.Key + "="))
	buf.WriteString(s)
}

// UseColor decides whether output to f is colored for a color setting of
// "always", "never" or "auto". Auto colors terminals unless NO_COLOR is set.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ParseLevel parses "debug", "info", "warn" or "error".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

// New returns a logger writing to w through a PrettyHandler.
func New(w io.Writer, opts *PrettyHandlerOptions) *slog.Logger {
	return slog.New(NewPrettyHandler(w, opts))
}
