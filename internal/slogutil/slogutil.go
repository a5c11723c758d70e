package slogutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Console formats accepted by ConsoleHandler.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// levelSilent sits above every standard level so nothing is emitted.
const levelSilent = slog.Level(100)

// NewLogger creates a logger on the line handler.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger creates a logger that discards all output.
func NewDiscardLogger() *slog.Logger {
	return slog.New(NewHandler(io.Discard, &slog.HandlerOptions{Level: levelSilent}))
}

// ConsoleHandler returns a JSON handler for FormatJSON and the line handler
// for anything else.
func ConsoleHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, FormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return NewHandler(w, opts)
}

// ParseLevel parses debug, info, warn (or warning) and error, ignoring
// case. The empty string is info.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// ResolveLevel returns the effective level: quiet silences everything, any
// -v selects debug, otherwise the configured level applies (info when it
// is not recognized).
func ResolveLevel(configured string, verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return levelSilent
	case verbosity > 0:
		return slog.LevelDebug
	}
	level, _ := ParseLevel(configured)
	return level
}

// FileHandler appends line-formatted records to path, creating the file
// and its directory. Closing the returned closer releases the file.
func FileHandler(path string, level slog.Leveler) (slog.Handler, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return NewHandler(f, &slog.HandlerOptions{Level: level}), f, nil
}

// Tee returns a handler writing every record to each non-nil handler.
// A single handler is returned unwrapped.
func Tee(handlers ...slog.Handler) slog.Handler {
	var hs teeHandler
	for _, h := range handlers {
		if h != nil {
			hs = append(hs, h)
		}
	}
	if len(hs) == 1 {
		return hs[0]
	}
	return hs
}

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a clone to each handler and returns the first error.
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t teeHandler) each(fn func(slog.Handler) slog.Handler) teeHandler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = fn(h)
	}
	return out
}
