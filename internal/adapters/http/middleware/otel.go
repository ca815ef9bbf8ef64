package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// unmatchedRoute labels requests no route matched, keeping raw paths with
// list and item IDs out of span names and metric attributes.
const unmatchedRoute = "unmatched"

// OpenTelemetry returns middleware that opens a server span per request,
// continuing a W3C trace context sent by the client, and records request
// metrics. Spans and metrics are labelled with the chi route pattern
// ("/api/v1/wishlists/{listID}"), which is known once routing finished.
// The acting user is recorded as enduser.id. metrics may be nil.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	tracer := otel.GetTracerProvider().Tracer("github.com/edmw/wishlist-sub003/internal/adapters/http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, "HTTP "+r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
				),
			)
			defer span.End()

			if subject := SubjectFromContext(ctx); subject != nil {
				span.SetAttributes(attribute.String("enduser.id", subject.String()))
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName("HTTP " + r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}

			recordServerMetrics(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}

// statusResult buckets a response status for the result attribute.
func statusResult(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "success"
	}
}

func recordServerMetrics(ctx context.Context, metrics *telemetry.Metrics, method, route string, status int, elapsed time.Duration) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrResult.String(statusResult(status)),
	)
	metrics.ServerRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	metrics.ServerRequestTotal.Add(ctx, 1, attrs)
}

// routePattern returns the chi route matched for r. chi fills the pattern
// in while routing, so it is only complete after the handler ran.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
