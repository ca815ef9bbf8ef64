package action

import (
	"context"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
)

// Stage queues a step on rc whose Do produces a value, typically the
// entity a repository created. The returned Staged holds that value once
// rc commits. When undo is set it receives the value on rollback.
func Stage[E any](rc *appctx.RequestContext, desc string, do func(context.Context) (E, error), undo func(context.Context, E) error) (*appctx.Staged[E], error) {
	ref := appctx.NewStaged[E]()

	step := domain.StepFunc{
		Desc: desc,
		Do: func(ctx context.Context) error {
			v, err := do(ctx)
			if err != nil {
				return err
			}
			ref.Set(v)
			return nil
		},
	}
	if undo != nil {
		step.Undo = func(ctx context.Context) error { return undo(ctx, ref.Get()) }
	}
	if err := rc.AddStep(step); err != nil {
		return nil, err
	}
	return ref, nil
}
