package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"

	"github.com/nao1215/sitelens/internal/pathguard"
)

// MaskValue replaces any absolute path that lies outside the allowed roots.
const MaskValue = "***OUTSIDE-ROOTS***"

// embeddedPath matches an absolute path inside free text, such as an error
// message. The path must start the text or follow a space, quote, '=' or '('.
var embeddedPath = regexp.MustCompile(`(?:^|[\s"'=(\[])((?:[A-Za-z]:)?[/\\][^\s"'<>|,;:)\]]+)`)

// Options configures New.
type Options struct {
	// Verbose enables debug level output. The default level is Warn.
	Verbose bool
	// JSON selects slog's JSON handler instead of the text handler.
	JSON bool
	// Roots are the allowed roots. Paths below them are logged verbatim.
	Roots []string
}

// SandboxHandler is a slog.Handler that masks paths outside the allowed roots
// before passing records to the wrapped handler.
type SandboxHandler struct {
	handler slog.Handler
	roots   []string
}

// NewSandboxHandler wraps handler. Roots are normalized here, so callers can
// pass them as the user typed them.
func NewSandboxHandler(handler slog.Handler, roots []string) *SandboxHandler {
	normalized := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}
		normalized = append(normalized, pathguard.Normalize(root))
	}
	return &SandboxHandler{handler: handler, roots: normalized}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SandboxHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the message and every attribute, then forwards the record.
func (h *SandboxHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, h.maskText(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the sanitized attributes added.
func (h *SandboxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &SandboxHandler{handler: h.handler.WithAttrs(sanitized), roots: h.roots}
}

// WithGroup returns a new handler with the given group name.
func (h *SandboxHandler) WithGroup(name string) slog.Handler {
	return &SandboxHandler{handler: h.handler.WithGroup(name), roots: h.roots}
}

func (h *SandboxHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	value := a.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.maskValue(value.String()))
	case slog.KindGroup:
		group := value.Group()
		sanitized := make([]any, len(group))
		for i, ga := range group {
			sanitized[i] = h.sanitizeAttr(ga)
		}
		return slog.Group(a.Key, sanitized...)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			return slog.String(a.Key, h.maskText(err.Error()))
		}
		if s, ok := value.Any().(interface{ String() string }); ok {
			return slog.String(a.Key, h.maskValue(s.String()))
		}
	}
	return slog.Attr{Key: a.Key, Value: value}
}

// maskValue masks a value that is itself a path, which may contain spaces,
// and falls back to scanning it as text.
func (h *SandboxHandler) maskValue(s string) string {
	if filepath.IsAbs(s) || isDrivePath(s) {
		if h.outside(s) {
			return MaskValue
		}
		return s
	}
	return h.maskText(s)
}

func (h *SandboxHandler) maskText(s string) string {
	matches := embeddedPath.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	out := make([]byte, 0, len(s))
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		out = append(out, s[last:start]...)
		if p := s[start:end]; h.outside(p) {
			out = append(out, MaskValue...)
		} else {
			out = append(out, p...)
		}
		last = end
	}
	out = append(out, s[last:]...)
	return string(out)
}

func (h *SandboxHandler) outside(path string) bool {
	return !pathguard.IsWithinAnyRoot(pathguard.Normalize(path), h.roots)
}

// isDrivePath reports whether s is a drive-qualified Windows path, which
// filepath.IsAbs rejects on other platforms.
func isDrivePath(s string) bool {
	return len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') &&
		(s[0] >= 'A' && s[0] <= 'Z' || s[0] >= 'a' && s[0] <= 'z')
}

// New creates a logger writing to w. Paths outside opts.Roots are masked
// in all levels, including debug.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if opts.JSON {
		base = slog.NewJSONHandler(w, handlerOpts)
	} else {
		base = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(NewSandboxHandler(base, opts.Roots))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
