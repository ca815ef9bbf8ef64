package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
)

type seenIDs struct {
	request, correlation string
	outboundRequest      string
	outboundCorrelation  string
}

// serveIDs runs RequestID then CorrelationID with the given incoming headers.
func serveIDs(t *testing.T, headers map[string]string) (seenIDs, *httptest.ResponseRecorder) {
	t.Helper()

	var seen seenIDs
	handler := middleware.Chain(middleware.RequestID(), middleware.CorrelationID())(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			seen = seenIDs{
				request:             middleware.RequestIDFromContext(ctx),
				correlation:         middleware.CorrelationIDFromContext(ctx),
				outboundRequest:     httpclient.RequestIDFromContext(ctx),
				outboundCorrelation: httpclient.CorrelationIDFromContext(ctx),
			}
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists", http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestIDs_Generated(t *testing.T) {
	t.Parallel()

	seen, rec := serveIDs(t, nil)

	id, err := uuid.Parse(seen.request)
	require.NoError(t, err, "generated request ID is a UUID")
	assert.Equal(t, uuid.Version(4), id.Version())
	assert.Equal(t, seen.request, seen.correlation, "correlation falls back to the request ID")
	assert.Equal(t, seen.request, seen.outboundRequest)
	assert.Equal(t, seen.correlation, seen.outboundCorrelation)
	assert.Equal(t, seen.request, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, seen.correlation, rec.Header().Get("X-Correlation-ID"))
}

func TestIDs_KeepsClientValues(t *testing.T) {
	t.Parallel()

	seen, rec := serveIDs(t, map[string]string{
		"X-Request-ID":     "req-123",
		"X-Correlation-ID": "checkout-flow-9",
	})

	assert.Equal(t, "req-123", seen.request)
	assert.Equal(t, "checkout-flow-9", seen.correlation)
	assert.Equal(t, "checkout-flow-9", seen.outboundCorrelation)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "checkout-flow-9", rec.Header().Get("X-Correlation-ID"))
}

func TestIDs_ReplacesUnacceptableValues(t *testing.T) {
	t.Parallel()

	for name, value := range map[string]string{
		"too long":       strings.Repeat("a", 129),
		"contains space": "req 1",
		"non ascii":      "req-é",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			seen, _ := serveIDs(t, map[string]string{"X-Request-ID": value, "X-Correlation-ID": value})
			assert.NotEqual(t, value, seen.request)
			assert.Equal(t, seen.request, seen.correlation)
		})
	}
}

func TestIDs_UniquePerRequest(t *testing.T) {
	t.Parallel()

	ids := map[string]bool{}
	for range 100 {
		seen, _ := serveIDs(t, nil)
		ids[seen.request] = true
	}
	assert.Len(t, ids, 100)
}

func TestIDsFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, middleware.RequestIDFromContext(context.Background()))
	assert.Empty(t, middleware.CorrelationIDFromContext(context.Background()))

	ctx := middleware.WithRequestID(context.Background(), "req-1")
	ctx = middleware.WithCorrelationID(ctx, "corr-1")
	assert.Equal(t, "req-1", middleware.RequestIDFromContext(ctx))
	assert.Equal(t, "corr-1", middleware.CorrelationIDFromContext(ctx))
}
