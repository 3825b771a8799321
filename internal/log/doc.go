// Package log provides structured logging helpers for webscrap.
//
// The package wraps log/slog with a handler that keeps crawl logs safe and
// readable: per-site auth material from the config file (cookies, custom
// Authorization headers) is redacted, and oversized text attributes such as
// chunk bodies are truncated before they reach the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components can keep accepting a plain *slog.Logger
package log
