// Package httpclient is the outbound HTTP client shared by the provider
// adapters (mail, push notifications). Each downstream gets its own Client
// with a circuit breaker, an optional rate limit, retries, OpenTelemetry
// client spans and request metrics.
//
// A call passes through, in order:
//
//	circuit breaker → rate limiter → header injection → span → attempts
//
// Usage:
//
//	client := httpclient.New(&cfg.Clients.Mail.ClientConfig, "mail", metrics, logger)
//	ctx = httpclient.WithIdempotencyKey(ctx, "invitation-"+id)
//	resp, err := client.Do(ctx, req)
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/edmw/wishlist-sub003/internal/platform/config"
	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// Client talks to one downstream provider. It is safe for concurrent use.
type Client struct {
	hc          *http.Client
	baseURL     string
	serviceName string
	breaker     *gobreaker.CircuitBreaker[struct{}]
	limiter     *rate.Limiter // nil: unlimited
	retry       config.RetryConfig
	metrics     *telemetry.Metrics
}

// New returns a Client for the provider named serviceName. The name labels
// its spans, metrics and logs and is its health registry entry. metrics may
// be nil.
func New(cfg *config.ClientConfig, serviceName string, metrics *telemetry.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("peer_service", serviceName))

	c := &Client{
		hc:          &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		serviceName: serviceName,
		retry:       cfg.Retry,
		metrics:     metrics,
	}
	if rl := cfg.RateLimit; rl.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.BurstSize)
	}

	cb := cfg.CircuitBreaker
	c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        serviceName,
		MaxRequests: toUint32(cb.HalfOpenLimit),
		Timeout:     cb.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cb.MaxFailures
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			level := slog.LevelWarn
			if to == gobreaker.StateClosed {
				level = slog.LevelInfo
			}
			logger.Log(context.Background(), level, "provider circuit changed state",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return c
}

// Do sends req. A response with a non-failure status is returned with a nil
// error and an open body. When the last attempt ends in 429 or 5xx, both the
// response and an error are returned and the caller still closes the body.
// Breaker rejections and transport errors return a nil response.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()

	var resp *http.Response
	_, err := c.breaker.Execute(func() (struct{}, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return struct{}{}, err
			}
		}

		forwardHeaders(ctx, req.Header)

		spanCtx, span := c.startSpan(ctx, req)
		defer span.End()

		err := c.send(spanCtx, req.WithContext(spanCtx), &resp)
		endSpan(span, resp, err)
		return struct{}{}, err
	})

	c.recordMetrics(ctx, req.Method, time.Since(start), resp, err)
	return resp, err
}

// BaseURL returns the provider's API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Name returns the provider name. With HealthCheck it satisfies
// ports.HealthChecker.
func (c *Client) Name() string {
	return c.serviceName
}

// HealthCheck reports the provider's state from the circuit breaker without
// a network call. A half-open breaker reports degraded, an open one failing.
func (c *Client) HealthCheck(_ context.Context) error {
	switch state := c.breaker.State(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", c.serviceName)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", c.serviceName)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", c.serviceName, state)
	}
}

// CircuitBreakerState returns "closed", "half-open" or "open".
func (c *Client) CircuitBreakerState() string {
	return c.breaker.State().String()
}

// startSpan opens a client span and writes the W3C trace context into the
// outbound headers.
func (c *Client) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := otel.GetTracerProvider().Tracer("httpclient").Start(ctx,
		fmt.Sprintf("HTTP %s %s", req.Method, c.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return ctx, span
}

func endSpan(span trace.Span, resp *http.Response, err error) {
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// outcome classifies a call for the result metric attribute.
func outcome(resp *http.Response, err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case resp != nil && resp.StatusCode < http.StatusBadRequest:
		return "success"
	default:
		return "error"
	}
}

// recordMetrics runs outside the breaker so rejected calls are counted too.
func (c *Client) recordMetrics(ctx context.Context, method string, elapsed time.Duration, resp *http.Response, err error) {
	if c.metrics == nil {
		return
	}

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	attrs := metric.WithAttributes(
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPStatus.Int(status),
		telemetry.AttrPeerService.String(c.serviceName),
		telemetry.AttrResult.String(outcome(resp, err)),
	)
	c.metrics.ClientRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.ClientRequestTotal.Add(ctx, 1, attrs)
}

// toUint32 clamps v into the uint32 range.
func toUint32(v int) uint32 {
	switch {
	case v <= 0:
		return 0
	case v > math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
