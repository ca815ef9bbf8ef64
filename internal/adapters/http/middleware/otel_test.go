package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// These tests swap the global TracerProvider and do not run in parallel.

const listRoute = "/api/v1/wishlists/{listID}"

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

// serveList routes one request through the middleware to a list handler
// answering status.
func serveList(t *testing.T, metrics *telemetry.Metrics, req *http.Request, status int) {
	t.Helper()

	r := chi.NewRouter()
	r.Use(middleware.OpenTelemetry(metrics))
	r.Get(listRoute, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(status) })
	r.ServeHTTP(httptest.NewRecorder(), req)
}

func onlySpan(t *testing.T, exporter *tracetest.InMemoryExporter) tracetest.SpanStub {
	t.Helper()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	return spans[0]
}

func spanAttrs(s tracetest.SpanStub) map[attribute.Key]any {
	m := make(map[attribute.Key]any, len(s.Attributes))
	for _, a := range s.Attributes {
		m[a.Key] = a.Value.AsInterface()
	}
	return m
}

func TestOpenTelemetry_SpanNamedAfterRoute(t *testing.T) {
	exporter := setupTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/0f8fad5b-d9cb-469f-a165-70867728950e", http.NoBody)
	serveList(t, nil, req, http.StatusOK)

	span := onlySpan(t, exporter)
	assert.Equal(t, "HTTP GET "+listRoute, span.Name)

	attrs := spanAttrs(span)
	assert.Equal(t, "GET", attrs["http.method"])
	assert.Equal(t, listRoute, attrs["http.route"])
	assert.EqualValues(t, http.StatusOK, attrs["http.status_code"])
	assert.NotContains(t, attrs, attribute.Key("enduser.id"))
	assert.Equal(t, codes.Unset, span.Status.Code)
}

func TestOpenTelemetry_UnmatchedRoute(t *testing.T) {
	exporter := setupTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nowhere/42", http.NoBody)
	serveList(t, nil, req, http.StatusOK)

	span := onlySpan(t, exporter)
	assert.Equal(t, "HTTP GET unmatched", span.Name)
	assert.EqualValues(t, http.StatusNotFound, spanAttrs(span)["http.status_code"])
}

func TestOpenTelemetry_ServerErrorMarksSpan(t *testing.T) {
	exporter := setupTracer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/x", http.NoBody)
	serveList(t, nil, req, http.StatusInternalServerError)

	assert.Equal(t, codes.Error, onlySpan(t, exporter).Status.Code)
}

func TestOpenTelemetry_RecordsSubject(t *testing.T) {
	exporter := setupTracer(t)

	id := user.NewID()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/x", http.NoBody)
	req = req.WithContext(middleware.WithSubject(req.Context(), id))
	serveList(t, nil, req, http.StatusOK)

	assert.Equal(t, id.String(), spanAttrs(onlySpan(t, exporter))["enduser.id"])
}

func TestOpenTelemetry_ContinuesClientTrace(t *testing.T) {
	exporter := setupTracer(t)

	const traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/x", http.NoBody)
	req.Header.Set("traceparent", "00-"+traceID+"-00f067aa0ba902b7-01")
	serveList(t, nil, req, http.StatusOK)

	span := onlySpan(t, exporter)
	assert.Equal(t, traceID, span.SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", span.Parent.SpanID().String())
}

func TestOpenTelemetry_RecordsServerMetrics(t *testing.T) {
	setupTracer(t)

	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "wishlist")
	require.NoError(t, err)

	for _, status := range []int{http.StatusOK, http.StatusOK, http.StatusForbidden} {
		serveList(t, metrics, httptest.NewRequest(http.MethodGet, "/api/v1/wishlists/x", http.NoBody), status)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total metricdata.Sum[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "http.server.request.total" {
				total = m.Data.(metricdata.Sum[int64])
			}
		}
	}

	got := map[string]int64{}
	for _, dp := range total.DataPoints {
		route, _ := dp.Attributes.Value(telemetry.AttrHTTPRoute)
		assert.Equal(t, listRoute, route.AsString())
		result, _ := dp.Attributes.Value(telemetry.AttrResult)
		got[result.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"success": 2, "client_error": 1}, got)
}

func TestOpenTelemetry_NilMetrics(t *testing.T) {
	setupTracer(t)

	rec := httptest.NewRecorder()
	handler := middleware.OpenTelemetry(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
