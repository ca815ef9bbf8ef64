package httpclient

import (
	"context"
	"net/http"
)

// forwardKey is both the context key of a forwarded value and the header it
// is sent in.
type forwardKey string

const (
	forwardRequestID     forwardKey = "X-Request-ID"
	forwardCorrelationID forwardKey = "X-Correlation-ID"
	forwardIdempotency   forwardKey = HeaderIdempotencyKey
)

var forwardedKeys = []forwardKey{forwardRequestID, forwardCorrelationID, forwardIdempotency}

// WithRequestID makes outbound requests carry the inbound request's ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, forwardRequestID, id)
}

// WithCorrelationID makes outbound requests carry the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, forwardCorrelationID, id)
}

// WithIdempotencyKey marks outbound requests made with ctx as replayable.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, forwardIdempotency, key)
}

// RequestIDFromContext returns the request ID forwarded with ctx, or "".
func RequestIDFromContext(ctx context.Context) string { return forwarded(ctx, forwardRequestID) }

// CorrelationIDFromContext returns the forwarded correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return forwarded(ctx, forwardCorrelationID)
}

// IdempotencyKeyFromContext returns the idempotency key set on ctx, or "".
func IdempotencyKeyFromContext(ctx context.Context) string {
	return forwarded(ctx, forwardIdempotency)
}

func forwarded(ctx context.Context, key forwardKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

// forwardHeaders sets every non-empty forwarded value on h.
func forwardHeaders(ctx context.Context, h http.Header) {
	for _, key := range forwardedKeys {
		if v := forwarded(ctx, key); v != "" {
			h.Set(string(key), v)
		}
	}
}
