// Package logging builds the service's slog loggers and carries them through
// request contexts.
//
//	logger := logging.New("info", "json", os.Stderr)
//	ctx = logging.WithLogger(ctx, logger)
//	ctx = logging.With(ctx, slog.String("action", "CreateList"))
//	logging.FromContext(ctx).ErrorContext(ctx, "failed to find list",
//	    slog.String("list_id", id.String()),
//	    slog.Any("error", err),
//	)
//
// Error logs name the entity identifiers and pass the whole error chain with
// slog.Any("error", err). Inside a request the context logger already carries
// request_id, correlation_id, user_id and the action name, and every record
// written with a context holding a recording span gets trace_id and span_id.
package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type contextKey struct{}

// New returns a logger writing to w. level is one of debug, info, warn or
// error in any case; anything else means info. format "text" selects the
// text handler, every other value JSON. Debug loggers include the source
// location. Sensitive attributes are masked, see newRedactAttr.
func New(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl <= slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if format == "text" {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(traceHandler{h})
}

// WithLogger returns ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// With returns ctx carrying the context logger enriched with attrs.
func With(ctx context.Context, attrs ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(attrs...))
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// traceHandler stamps records with the IDs of the span in their context so
// action logs can be joined with the action's trace.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r = r.Clone()
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}
