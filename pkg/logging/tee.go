package logging

import (
	"context"
	"errors"
	"log/slog"
)

// TeeHandler sends every record to a primary handler and to copies, such
// as a JSON log file next to console output. Each handler applies its own
// level.
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler returns a handler writing to primary and every copy.
func NewTeeHandler(primary slog.Handler, copies ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: append([]slog.Handler{primary}, copies...)}
}

// Enabled reports whether any handler accepts level.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to every handler that accepts its level. A failing
// handler does not stop the others; their errors are joined.
func (h *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs implements slog.Handler.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(handler slog.Handler) slog.Handler { return handler.WithAttrs(attrs) })
}

// WithGroup implements slog.Handler.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	return h.each(func(handler slog.Handler) slog.Handler { return handler.WithGroup(name) })
}

func (h *TeeHandler) each(fn func(slog.Handler) slog.Handler) *TeeHandler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = fn(handler)
	}
	return &TeeHandler{handlers: handlers}
}
