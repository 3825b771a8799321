package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// sensitiveKeys contains attribute keys that are always redacted.
// Per-site profiles may carry cookies and auth headers for sites that sit
// behind a login; those values must never end up in crawl logs.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"proxy-authorization": true,
	"password":            true,
	"secret":              true,
	"token":               true,
	"api_key":             true,
	"apikey":              true,
	"api-key":             true,
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// MaxAttrLen is the maximum length of a string attribute value.
// Chunk text routinely runs to thousands of characters; logging it whole
// at debug level would drown the rest of the output.
const MaxAttrLen = 256

// Handler wraps an slog.Handler to sanitize crawl log records.
// It redacts attribute values under sensitive keys and truncates oversized
// string values before passing records to the underlying handler.
type Handler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewHandler creates a new Handler wrapping the given handler.
// If handler is nil, the returned Handler uses slog.Default().Handler().
func NewHandler(handler slog.Handler) *Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &Handler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying
// handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *Handler) sanitizeAttr(a slog.Attr) slog.Attr {
	// Handle groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	// Truncate oversized string values (chunk bodies, raw HTML snippets)
	if a.Value.Kind() == slog.KindString {
		if v := a.Value.String(); len(v) > MaxAttrLen {
			return slog.String(a.Key, v[:MaxAttrLen]+"...")
		}
	}

	return a
}

// NewLogger creates a new slog.Logger with the sanitizing handler.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewHandler(textHandler))
}
