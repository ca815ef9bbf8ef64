package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"
	maxRequestIDLen     = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// WithRequestID returns ctx carrying id as the request ID. Outbound calls
// to the mail and push providers forward it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return httpclient.WithRequestID(context.WithValue(ctx, requestIDKey, id), id)
}

// WithCorrelationID returns ctx carrying id as the correlation ID. Outbound
// provider calls forward it as X-Correlation-ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return httpclient.WithCorrelationID(context.WithValue(ctx, correlationIDKey, id), id)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// RequestID returns middleware that keeps an acceptable X-Request-ID from
// the client or assigns a random UUID, stores it in the context and echoes
// it in the response.
func RequestID() func(http.Handler) http.Handler {
	return propagateID(headerRequestID, WithRequestID, func(*http.Request) string {
		return uuid.NewString()
	})
}

// CorrelationID returns middleware like RequestID for X-Correlation-ID,
// falling back to the request ID. It must run after RequestID.
func CorrelationID() func(http.Handler) http.Handler {
	return propagateID(headerCorrelationID, WithCorrelationID, func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	})
}

func propagateID(header string, store func(context.Context, string) context.Context, fallback func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if !acceptableID(id) {
				id = fallback(r)
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(store(r.Context(), id)))
		})
	}
}

// acceptableID reports whether a client supplied ID may be reused. IDs end
// up in logs and outbound headers, so only short printable ASCII passes.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
