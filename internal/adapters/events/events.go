// Package events implements the event recording and message logging
// provider ports on top of OpenTelemetry metrics and slog, and the store
// change log subscribed to the repositories.
package events

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/metric"

	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/platform/observer"
	"github.com/edmw/wishlist-sub003/internal/platform/telemetry"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var (
	_ ports.EventRecordingProvider = (*Recorder)(nil)
	_ ports.MessageLoggingProvider = (*MessageLog)(nil)
)

// Recorder counts domain events by kind and logs them at debug level.
type Recorder struct {
	metrics *telemetry.Metrics
}

// NewRecorder creates a Recorder. A nil metrics counts nothing.
func NewRecorder(metrics *telemetry.Metrics) *Recorder {
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &Recorder{metrics: metrics}
}

// RecordEvent implements ports.EventRecordingProvider.
func (r *Recorder) RecordEvent(ctx context.Context, e ports.Event) error {
	r.metrics.EventsTotal.Add(ctx, 1, metric.WithAttributes(telemetry.AttrEventKind.String(e.Kind)))

	logging.FromContext(ctx).DebugContext(ctx, "event recorded",
		slog.String("event", e.Kind),
		slog.String("subject_id", e.SubjectID),
		slog.String("entity_id", e.EntityID),
		slog.Time("occurred_at", e.OccurredAt),
		attributes(e.Attributes),
	)
	return nil
}

// MessageLog writes audit messages to a logger.
type MessageLog struct {
	logger *slog.Logger
}

// NewMessageLog creates a MessageLog. A nil logger logs through the logger
// carried by each call's context.
func NewMessageLog(logger *slog.Logger) *MessageLog {
	return &MessageLog{logger: logger}
}

// LogMessage implements ports.MessageLoggingProvider.
func (l *MessageLog) LogMessage(ctx context.Context, m ports.Message) error {
	logger := l.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	logger.InfoContext(ctx, m.Text, slog.String("kind", "audit"), attributes(m.Attributes))
	return nil
}

// attributes groups attrs in key order.
func attributes(attrs map[string]string) slog.Attr {
	args := make([]any, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		args = append(args, slog.String(k, attrs[k]))
	}
	return slog.Group("attributes", args...)
}

// StoreChanges returns an observer logging the creations and deletions a
// repository performs for entities of kind. It reports store operations
// as they happen: a deletion undone by a rollback shows up as a deletion
// followed by a creation.
func StoreChanges[E any](logger *slog.Logger, kind string, id func(E) string) observer.Funcs[E] {
	log := func(ctx context.Context, op string, e E) {
		l := logger
		if l == nil {
			l = logging.FromContext(ctx)
		}
		l.DebugContext(ctx, "store changed",
			slog.String("entity", kind),
			slog.String("change", op),
			slog.String("entity_id", id(e)),
		)
	}
	return observer.Funcs[E]{
		OnCreated: func(ctx context.Context, e E) { log(ctx, "created", e) },
		OnDeleted: func(ctx context.Context, e E) { log(ctx, "deleted", e) },
	}
}
