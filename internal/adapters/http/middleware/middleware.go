// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// Pipeline assembles the service's chain in this order:
//
//	Recovery → RequestID → CorrelationID → Subject → OpenTelemetry → Logging → Timeout → Handler
//
// Each middleware is a func(http.Handler) http.Handler and can be composed
// using the Chain helper.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// Pipeline returns the service's middleware in execution order.
func Pipeline(logger *slog.Logger, metrics *telemetry.Metrics, timeout time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Recovery(logger),
		RequestID(),
		CorrelationID(),
		Subject(),
		OpenTelemetry(metrics),
		Logging(logger),
		Timeout(timeout),
	}
}

// Chain composes multiple middleware into a single middleware. The first
// argument becomes the outermost middleware:
//
//	Chain(Recovery, RequestID, Logging)(handler)
//
// is equivalent to:
//
//	Recovery(RequestID(Logging(handler)))
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// responseWriter captures the status code and bytes written for recovery,
// otel and logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code. Only the first call takes effect.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
