package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

// Logging returns middleware that logs each request's start and completion.
//
// The child logger carries request_id, correlation_id and, for signed in
// users, user_id. It is stored with logging.WithLogger so handlers and
// actions log with the same attributes. Completion is logged at warn for
// 4xx and at error for 5xx, and names the matched route. Headers are logged
// at debug level with credentials redacted.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			child := requestLogger(logger, r)
			ctx := logging.WithLogger(r.Context(), child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.LogAttrs(ctx, slog.LevelDebug, "request headers", RedactHeaders(r.Header)...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			child.LogAttrs(ctx, completionLevel(rw.statusCode), "request completed",
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	ctx := r.Context()
	attrs := []any{
		slog.String("request_id", RequestIDFromContext(ctx)),
		slog.String("correlation_id", CorrelationIDFromContext(ctx)),
	}
	if subject := SubjectFromContext(ctx); subject != nil {
		attrs = append(attrs, slog.String("user_id", subject.String()))
	}
	return logger.With(attrs...)
}

func completionLevel(status int) slog.Level {
	switch statusResult(status) {
	case "server_error":
		return slog.LevelError
	case "client_error":
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
