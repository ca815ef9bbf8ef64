package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// The Init functions install global providers, so these tests do not run in
// parallel.

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct{ exporter, endpoint string }{
		{telemetry.ExporterStdout, ""},
		{telemetry.ExporterOTLP, "http://localhost:4318"},
		{telemetry.ExporterOTLP, "localhost:4318"},
	} {
		tp, err := telemetry.InitTracer(ctx, "wishlist", tt.exporter, tt.endpoint)
		require.NoError(t, err, "%s %s", tt.exporter, tt.endpoint)
		// No collector runs in unit tests, so the OTLP flush may fail.
		_ = tp.Shutdown(ctx)
	}

	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}

func TestInitMeter(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []struct{ exporter, endpoint string }{
		{telemetry.ExporterStdout, ""},
		{telemetry.ExporterOTLP, "https://collector.example:4318"},
	} {
		mp, err := telemetry.InitMeter(ctx, "wishlist", tt.exporter, tt.endpoint)
		require.NoError(t, err, "%s %s", tt.exporter, tt.endpoint)
		_ = mp.Shutdown(ctx)
	}
}

func TestInit_RejectsBadExporter(t *testing.T) {
	ctx := context.Background()

	_, err := telemetry.InitTracer(ctx, "wishlist", "zipkin", "")
	require.ErrorIs(t, err, telemetry.ErrUnsupportedExporter)
	_, err = telemetry.InitMeter(ctx, "wishlist", "zipkin", "")
	require.ErrorIs(t, err, telemetry.ErrUnsupportedExporter)

	_, err = telemetry.InitTracer(ctx, "wishlist", telemetry.ExporterOTLP, "")
	require.ErrorContains(t, err, "endpoint")
	_, err = telemetry.InitMeter(ctx, "wishlist", telemetry.ExporterOTLP, "")
	require.ErrorContains(t, err, "endpoint")
}

func TestNewMetrics_RecordsActions(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	m, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "wishlist")
	require.NoError(t, err)

	ctx := context.Background()
	attrs := metric.WithAttributes(
		telemetry.AttrAction.String("CreateList"),
		telemetry.AttrResult.String("success"),
	)
	m.ActionTotal.Add(ctx, 1, attrs)
	m.ActionDuration.Record(ctx, 0.0003, attrs)
	m.EventsTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrEventKind.String("list.created")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		byName[md.Name] = md
	}
	assert.Contains(t, byName, "wishlist.action.total")
	assert.Contains(t, byName, "wishlist.events.total")

	hist, ok := byName["wishlist.action.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "action duration is a float histogram")
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}, hist.DataPoints[0].Bounds)
	assert.Equal(t, []uint64{0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, hist.DataPoints[0].BucketCounts)
}

func TestNewNoopMetrics(t *testing.T) {
	t.Parallel()

	m := telemetry.NewNoopMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.ServerRequestTotal.Add(context.Background(), 1)
		m.ClientRequestDuration.Record(context.Background(), 0.2)
	})
}
