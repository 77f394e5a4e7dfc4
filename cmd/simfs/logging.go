package main

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Log sinks known to the [logRouter].
const (
	sinkConsole = "console"
	sinkUI      = "ui"
)

// logRouter is a [slog.Handler] that fans records out to a set of named
// sinks, which can be swapped while the program runs. Handlers derived with
// WithAttrs or WithGroup share the sinks of their root.
type logRouter struct {
	root   *logSinks
	attrs  []slog.Attr
	groups []string
}

type logSinks struct {
	sync.RWMutex
	level    slog.Leveler
	handlers map[string]slog.Handler
}

func newLogRouter(level slog.Leveler) *logRouter {
	return &logRouter{
		root: &logSinks{
			level:    level,
			handlers: make(map[string]slog.Handler),
		},
	}
}

// newTintHandler returns the console-style handler used for every sink.
func newTintHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

// SetSink routes all records to w under name, replacing a previous sink of
// the same name.
func (r *logRouter) SetSink(name string, w io.Writer) {
	r.root.Lock()
	defer r.root.Unlock()

	r.root.handlers[name] = newTintHandler(w, r.root.level)
}

// RemoveSink stops routing records to the sink of name.
func (r *logRouter) RemoveSink(name string) {
	r.root.Lock()
	defer r.root.Unlock()

	delete(r.root.handlers, name)
}

func (r *logRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.root.level.Level()
}

func (r *logRouter) Handle(ctx context.Context, rec slog.Record) error {
	r.root.RLock()
	defer r.root.RUnlock()

	for _, h := range r.root.handlers {
		for _, group := range r.groups {
			h = h.WithGroup(group)
		}
		if len(r.attrs) > 0 {
			h = h.WithAttrs(r.attrs)
		}
		_ = h.Handle(ctx, rec.Clone())
	}

	return nil
}

func (r *logRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logRouter{
		root:   r.root,
		attrs:  append(slices.Clone(r.attrs), attrs...),
		groups: r.groups,
	}
}

func (r *logRouter) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}

	return &logRouter{
		root:   r.root,
		attrs:  r.attrs,
		groups: append(slices.Clone(r.groups), name),
	}
}
