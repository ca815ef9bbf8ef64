package appctx

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

// stepItem is the internal interface for executable items in the step
// queue. Both single steps and step groups implement this interface.
type stepItem interface {
	execute(ctx context.Context) error
	rollback(ctx context.Context) error
	description() string
}

// singleStep wraps a domain.Step to satisfy the stepItem interface.
type singleStep struct {
	step domain.Step
}

func (s *singleStep) execute(ctx context.Context) error  { return s.step.Execute(ctx) }
func (s *singleStep) rollback(ctx context.Context) error { return s.step.Rollback(ctx) }
func (s *singleStep) description() string                { return s.step.Description() }

// stepGroup holds steps that execute in parallel. If any step fails, the
// others are canceled via context and successfully completed steps are
// rolled back in reverse insertion order.
type stepGroup struct {
	steps     []domain.Step
	completed []domain.Step
}

func (g *stepGroup) execute(ctx context.Context) error {
	if len(g.steps) == 0 {
		return nil
	}

	done := make([]bool, len(g.steps))
	eg, groupCtx := errgroup.WithContext(ctx)
	for i, s := range g.steps {
		eg.Go(func() error {
			if err := s.Execute(groupCtx); err != nil {
				return err
			}
			done[i] = true
			return nil
		})
	}
	err := eg.Wait()

	g.completed = nil
	for i, ok := range done {
		if ok {
			g.completed = append(g.completed, g.steps[i])
		}
	}

	if err != nil {
		g.rollbackCompleted(ctx)
		return err
	}
	return nil
}

func (g *stepGroup) rollback(ctx context.Context) error {
	g.rollbackCompleted(ctx)
	return nil
}

// rollbackCompleted rolls back successfully completed steps in reverse
// insertion order. Rollback errors are logged and do not stop the rollback
// of remaining steps.
func (g *stepGroup) rollbackCompleted(ctx context.Context) {
	logger := logging.FromContext(ctx)
	for i := len(g.completed) - 1; i >= 0; i-- {
		s := g.completed[i]
		if err := s.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "rollback failed in step group",
				slog.String("operation", "stepGroup.rollback"),
				slog.String("step", s.Description()),
				slog.Any("error", err),
			)
		}
	}
}

func (g *stepGroup) description() string {
	switch len(g.steps) {
	case 0:
		return "empty step group"
	case 1:
		return g.steps[0].Description()
	default:
		return fmt.Sprintf("step group (%d steps: %s, ...)", len(g.steps), g.steps[0].Description())
	}
}

// AddStep queues a single step for execution by Commit.
func (rc *RequestContext) AddStep(step domain.Step) error {
	if step == nil {
		return ErrNilStep
	}
	return rc.enqueue(&singleStep{step: step}, nil)
}

// AddGroup queues steps that Commit executes concurrently when the group's
// turn arrives.
func (rc *RequestContext) AddGroup(steps ...domain.Step) error {
	if slices.Contains(steps, nil) {
		return ErrNilStep
	}
	return rc.enqueue(&stepGroup{steps: steps}, nil)
}

// Pending returns the number of queued items not yet committed.
func (rc *RequestContext) Pending() int {
	rc.queueMu.Lock()
	defer rc.queueMu.Unlock()
	return len(rc.items)
}
