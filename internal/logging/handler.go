package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SwappableHandler forwards to a slog.Handler that can be replaced at
// runtime. Handlers derived through WithAttrs and WithGroup stay attached to
// the same slot, so loggers created before a Swap follow it.
type SwappableHandler struct {
	slot *atomic.Pointer[slog.Handler]
	// derive replays WithAttrs/WithGroup calls onto the current handler
	derive []func(slog.Handler) slog.Handler
}

// NewSwappableHandler creates a handler with an initial target.
func NewSwappableHandler(initial slog.Handler) *SwappableHandler {
	slot := new(atomic.Pointer[slog.Handler])
	slot.Store(&initial)
	return &SwappableHandler{slot: slot}
}

// Swap replaces the target for this handler and every handler derived from
// it. Safe to call while logging is in progress.
func (sh *SwappableHandler) Swap(next slog.Handler) {
	sh.slot.Store(&next)
}

func (sh *SwappableHandler) current() slog.Handler {
	h := *sh.slot.Load()
	for _, fn := range sh.derive {
		h = fn(h)
	}
	return h
}

// Enabled reports whether the current target handles level.
func (sh *SwappableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.current().Enabled(ctx, level)
}

// Handle passes r to the current target.
func (sh *SwappableHandler) Handle(ctx context.Context, r slog.Record) error {
	return sh.current().Handle(ctx, r)
}

// WithAttrs returns a derived handler carrying attrs.
func (sh *SwappableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sh.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup returns a derived handler that nests attributes under name.
func (sh *SwappableHandler) WithGroup(name string) slog.Handler {
	return sh.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (sh *SwappableHandler) with(fn func(slog.Handler) slog.Handler) *SwappableHandler {
	derive := make([]func(slog.Handler) slog.Handler, len(sh.derive), len(sh.derive)+1)
	copy(derive, sh.derive)
	return &SwappableHandler{slot: sh.slot, derive: append(derive, fn)}
}
