// Package telemetry sets up OpenTelemetry tracing and metrics for the
// wishlist service and registers its instruments.
//
//	tp, err := telemetry.InitTracer(ctx, "wishlist", telemetry.ExporterOTLP, "http://otel-collector:4318")
//	mp, err := telemetry.InitMeter(ctx, "wishlist", telemetry.ExporterOTLP, "http://otel-collector:4318")
//	metrics, err := telemetry.NewMetrics(mp, "wishlist")
//	metrics.ActionTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrAction.String("CreateList")))
//
// Both providers must be shut down on exit to flush pending data.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporters.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var (
	// ErrUnsupportedExporter is returned for an exporter name other than
	// ExporterStdout or ExporterOTLP.
	ErrUnsupportedExporter = errors.New("unsupported exporter")

	errNoEndpoint = errors.New("otlp exporter requires an endpoint")
)

// Metric attribute keys.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrAction      = attribute.Key("action")
	AttrEventKind   = attribute.Key("event.kind")
)

// actionBuckets fit actions served from memory: most finish well below a
// millisecond, the ones calling a provider take up to seconds.
var actionBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// Metrics holds the service's instruments.
type Metrics struct {
	// Inbound API requests, recorded by the HTTP middleware.
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter

	// Calls to the mail and push providers.
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	// Action invocations by action name and outcome.
	ActionDuration metric.Float64Histogram
	ActionTotal    metric.Int64Counter

	// Domain events by kind.
	EventsTotal metric.Int64Counter
}

// InitTracer installs a global TracerProvider exporting to exporter and the
// W3C trace context and baggage propagators.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	var exp sdktrace.SpanExporter
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := otlpTarget(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err = otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating span exporter: %w", err)
		}
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating span exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter installs a global MeterProvider exporting periodically to
// exporter.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	var exp sdkmetric.Exporter
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := otlpTarget(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err = otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating metric exporter: %w", err)
		}
	case ExporterStdout:
		exp, err = stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("creating metric exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMetrics registers the instruments on a meter named scope.
func NewMetrics(mp metric.MeterProvider, scope string) (*Metrics, error) {
	meter := mp.Meter(scope)
	m := &Metrics{}

	var errs []error
	histogram := func(dst *metric.Float64Histogram, name, desc string, opts ...metric.Float64HistogramOption) {
		h, err := meter.Float64Histogram(name, append(opts, metric.WithDescription(desc), metric.WithUnit("s"))...)
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		*dst = h
	}
	counter := func(dst *metric.Int64Counter, name, desc, unit string) {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		*dst = c
	}

	histogram(&m.ServerRequestDuration, "http.server.request.duration", "Duration of incoming HTTP requests")
	counter(&m.ServerRequestTotal, "http.server.request.total", "Incoming HTTP requests", "{request}")
	histogram(&m.ClientRequestDuration, "http.client.request.duration", "Duration of calls to mail and push providers")
	counter(&m.ClientRequestTotal, "http.client.request.total", "Calls to mail and push providers", "{request}")
	histogram(&m.ActionDuration, "wishlist.action.duration", "Duration of action invocations",
		metric.WithExplicitBucketBoundaries(actionBuckets...))
	counter(&m.ActionTotal, "wishlist.action.total", "Action invocations by outcome", "{invocation}")
	counter(&m.EventsTotal, "wishlist.events.total", "Recorded domain events by kind", "{event}")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// NewNoopMetrics returns instruments that record nothing, for disabled
// telemetry and tests.
func NewNoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider(), "noop")
	return m
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	return res, nil
}

// otlpTarget splits a collector URL such as "http://otel-collector:4318"
// into the host:port the exporters expect and whether to skip TLS. A bare
// host:port is used as is, without TLS.
func otlpTarget(endpoint string) (host string, insecure bool, err error) {
	if endpoint == "" {
		return "", false, errNoEndpoint
	}
	u, perr := url.Parse(endpoint)
	if perr != nil || u.Host == "" {
		return endpoint, true, nil
	}
	return u.Host, u.Scheme != "https", nil
}
