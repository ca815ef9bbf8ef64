package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
)

// errInternalServer is all a client learns about a recovered panic.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that turns a panic in a downstream handler into
// a Problem Details 500, unless the response already started. The panic is
// logged with its stack, the request ID and the acting user.
//
// http.ErrAbortHandler is passed on so net/http can abort the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}
				logPanic(logger, r, rw, v)
				if !rw.headerWritten {
					dto.WriteErrorResponse(rw, r, errInternalServer)
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

func logPanic(logger *slog.Logger, r *http.Request, rw *responseWriter, v any) {
	attrs := []slog.Attr{
		slog.String("panic", fmt.Sprint(v)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", rw.Header().Get(headerRequestID)),
		slog.Bool("response_started", rw.headerWritten),
		slog.String("stack", string(debug.Stack())),
	}
	// Recovery runs outside Subject, so the header is read directly.
	if uid := r.Header.Get(HeaderUserID); uid != "" {
		attrs = append(attrs, slog.String("user_id", uid))
	}
	logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered", attrs...)
}
