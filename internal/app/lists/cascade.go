package lists

import (
	"context"
	"fmt"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/fanout"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/sorting"
)

// stageCascade queues the deletion of l in dependency order: the
// reservations and favorites on its items, then the items, then the list,
// and last the item images. Every deletion restores its entity on
// rollback; images are removed only when all deletions succeeded.
func (a *Actor) stageCascade(ctx context.Context, rc *appctx.RequestContext, l list.List) error {
	items, err := a.deps.Items.ListByList(ctx, l.ID, sorting.Spec{})
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	ids := make([]item.ID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	reservations, err := a.deps.Reservations.FindByItems(ctx, ids)
	if err != nil {
		return fmt.Errorf("finding reservations: %w", err)
	}
	favorites, err := fanout.Map(ctx, a.deps.Workers, items, func(ctx context.Context, it item.Item) ([]favorite.Favorite, error) {
		return a.deps.Favorites.ListByItem(ctx, it.ID)
	})
	if err != nil {
		return fmt.Errorf("listing favorites: %w", err)
	}

	var refs []domain.Step
	for _, res := range reservations {
		refs = append(refs, domain.StepFunc{
			Desc: "delete reservation " + res.ID.String(),
			Do:   func(ctx context.Context) error { return a.deps.Reservations.Delete(ctx, res.ID) },
			Undo: func(ctx context.Context) error {
				_, err := a.deps.Reservations.Create(ctx, &res)
				return err
			},
		})
	}
	for _, fs := range favorites {
		for _, f := range fs {
			refs = append(refs, domain.StepFunc{
				Desc: "delete favorite " + f.ID.String(),
				Do:   func(ctx context.Context) error { return a.deps.Favorites.Delete(ctx, f.ID) },
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Favorites.Create(ctx, &f)
					return err
				},
			})
		}
	}
	if len(refs) > 0 {
		if err := rc.AddGroup(refs...); err != nil {
			return err
		}
	}

	if len(items) > 0 {
		steps := make([]domain.Step, len(items))
		for i, it := range items {
			steps[i] = domain.StepFunc{
				Desc: "delete item " + it.ID.String(),
				Do:   func(ctx context.Context) error { return a.deps.Items.Delete(ctx, it.ID) },
				Undo: func(ctx context.Context) error {
					_, err := a.deps.Items.Create(ctx, &it)
					return err
				},
			}
		}
		if err := rc.AddGroup(steps...); err != nil {
			return err
		}
	}

	if err := rc.AddStep(domain.StepFunc{
		Desc: "delete list " + l.ID.String(),
		Do:   func(ctx context.Context) error { return a.deps.Lists.Delete(ctx, l.ID) },
		Undo: func(ctx context.Context) error {
			_, err := a.deps.Lists.Create(ctx, &l)
			return err
		},
	}); err != nil {
		return err
	}
	return a.deps.Cleaner.Stage(rc, items...)
}
