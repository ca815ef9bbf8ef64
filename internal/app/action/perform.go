package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
)

// Outcome classifies how an action invocation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeDenied is an authorization failure.
	OutcomeDenied Outcome = "denied"
	// OutcomeInvalid is an invalid reference, a validation failure or a
	// rule violation the caller can fix.
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// Classify maps an action error to its Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
		return OutcomeDenied
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Performer runs action bodies with tracing, metrics and logging. One
// Performer is shared by all actors.
type Performer struct {
	tracer  trace.Tracer
	metrics *telemetry.Metrics
}

// NewPerformer creates a Performer. A nil metrics records nothing.
func NewPerformer(metrics *telemetry.Metrics) *Performer {
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Performer{
		tracer:  otel.GetTracerProvider().Tracer("github.com/edmw/wishlist-sub003/internal/app/action"),
		metrics: metrics,
	}
}

// Perform runs body on the request context carried by b. Body receives a
// ctx carrying the action's span and logger, and rc for memoized lookups
// and staged steps.
//
// Steps body staged but did not commit are committed after body returns
// successfully and discarded when it fails. A failing commit fails the
// action. Bodies that need the outcome of their steps to build the result
// commit themselves.
func Perform[R any](p *Performer, b Boundaries, name Name, body func(ctx context.Context, rc *appctx.RequestContext) (R, error)) (R, error) {
	var zero R

	rc := b.RequestContext()
	if rc == nil {
		return zero, fmt.Errorf("%s: %w", name, ErrNoExecutionContext)
	}

	start := time.Now()
	ctx, span := p.tracer.Start(rc, "action "+name.String(),
		trace.WithAttributes(attribute.String("action", name.String())),
	)
	defer span.End()

	ctx = logging.With(ctx, slog.String("action", name.String()))
	logger := logging.FromContext(ctx)
	logger.DebugContext(ctx, "action started")

	res, err := run(ctx, rc, body)

	outcome := Classify(err)
	p.record(ctx, name, outcome, time.Since(start))
	span.SetAttributes(attribute.String("result", string(outcome)))

	if err != nil {
		level := slog.LevelInfo
		if outcome == OutcomeError {
			level = slog.LevelError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		logger.Log(ctx, level, "action failed",
			slog.String("operation", name.String()),
			slog.String("result", string(outcome)),
			slog.Any("error", err),
		)
		return zero, err
	}

	logger.DebugContext(ctx, "action completed",
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// run executes body and settles the staged steps.
func run[R any](ctx context.Context, rc *appctx.RequestContext, body func(ctx context.Context, rc *appctx.RequestContext) (R, error)) (R, error) {
	var zero R

	res, err := body(ctx, rc)
	if err != nil {
		if rc.Pending() > 0 {
			rc.Rollback()
		}
		return zero, err
	}
	if rc.Pending() > 0 {
		if err := rc.Commit(ctx); err != nil {
			return zero, err
		}
	}
	return res, nil
}

func (p *Performer) record(ctx context.Context, name Name, outcome Outcome, d time.Duration) {
	attrs := metric.WithAttributes(
		telemetry.AttrAction.String(name.String()),
		telemetry.AttrResult.String(string(outcome)),
	)
	p.metrics.ActionTotal.Add(ctx, 1, attrs)
	p.metrics.ActionDuration.Record(ctx, d.Seconds(), attrs)
}
