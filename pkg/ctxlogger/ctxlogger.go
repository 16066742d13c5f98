// Package ctxlogger carries slog attributes in a context.Context so every
// log record emitted under that context is tagged with them.
package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// ContextHandler wraps a slog.Handler and folds ctx-attached attributes
// into every record.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a context carrying the parent's attributes plus attr.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if attrs, ok := parent.Value(ctxKey{}).([]slog.Attr); ok {
		next := make([]slog.Attr, 0, len(attrs)+1)
		next = append(next, attrs...)
		next = append(next, attr)
		return context.WithValue(parent, ctxKey{}, next)
	}

	return context.WithValue(parent, ctxKey{}, []slog.Attr{attr})
}
