package action

import (
	"context"
	"log/slog"
	"time"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// Recorder publishes events and audit messages for actions. Publishing is
// best effort: failures are logged and never reach the action's caller.
// A nil Recorder, or one without providers, records nothing.
type Recorder struct {
	events   ports.EventRecordingProvider
	messages ports.MessageLoggingProvider
	now      func() time.Time
}

// NewRecorder creates a Recorder. Either provider may be nil.
func NewRecorder(events ports.EventRecordingProvider, messages ports.MessageLoggingProvider) *Recorder {
	return &Recorder{events: events, messages: messages, now: time.Now}
}

// Event stages e to be recorded after the action's other steps have
// committed. When rc has already been committed the event is recorded
// immediately.
func (r *Recorder) Event(ctx context.Context, rc *appctx.RequestContext, e ports.Event) {
	if r == nil || r.events == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = r.now()
	}
	r.stage(ctx, rc, "record event "+e.Kind, func(ctx context.Context) { r.recordEvent(ctx, e) })
}

// Message stages m to be logged after the action's other steps have
// committed.
func (r *Recorder) Message(ctx context.Context, rc *appctx.RequestContext, m ports.Message) {
	if r == nil || r.messages == nil {
		return
	}
	r.stage(ctx, rc, "log message", func(ctx context.Context) { r.logMessage(ctx, m) })
}

func (r *Recorder) stage(ctx context.Context, rc *appctx.RequestContext, desc string, publish func(context.Context)) {
	step := domain.StepFunc{
		Desc: desc,
		Do: func(ctx context.Context) error {
			publish(ctx)
			return nil
		},
	}
	if err := rc.AddStep(step); err != nil {
		publish(ctx)
	}
}

func (r *Recorder) recordEvent(ctx context.Context, e ports.Event) {
	if err := r.events.RecordEvent(ctx, e); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "recording event failed",
			slog.String("operation", "Recorder.Event"),
			slog.String("event", e.Kind),
			slog.String("entity_id", e.EntityID),
			slog.Any("error", err),
		)
	}
}

func (r *Recorder) logMessage(ctx context.Context, m ports.Message) {
	if err := r.messages.LogMessage(ctx, m); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "logging message failed",
			slog.String("operation", "Recorder.Message"),
			slog.Any("error", err),
		)
	}
}
