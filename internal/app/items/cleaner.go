package items

import (
	"context"
	"fmt"
	"log/slog"

	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// ImageCleaner removes the stored images of deleted items. Removal cannot
// be undone, so it is queued behind the deletions and runs only once all of
// them succeeded.
type ImageCleaner struct {
	images ports.ImageStoreProvider
}

// NewImageCleaner creates an ImageCleaner removing images from images.
func NewImageCleaner(images ports.ImageStoreProvider) *ImageCleaner {
	return &ImageCleaner{images: images}
}

// Stage queues the removal of the images of deleted on rc. Call it after
// staging the deletions. A nil ImageCleaner, or items without images,
// queue nothing.
func (c *ImageCleaner) Stage(rc *appctx.RequestContext, deleted ...item.Item) error {
	if c == nil || c.images == nil {
		return nil
	}
	var keys []string
	for _, it := range deleted {
		if it.HasImage() {
			keys = append(keys, it.ImageKey)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.AddStep(domain.StepFunc{
		Desc: fmt.Sprintf("remove %d item images", len(keys)),
		Do:   func(ctx context.Context) error { c.remove(ctx, keys); return nil },
	})
}

// remove is best effort: the items are gone whether or not their images
// could be removed.
func (c *ImageCleaner) remove(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := c.images.RemoveImage(ctx, key); err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "removing item image failed",
				slog.String("operation", "ImageCleaner.remove"),
				slog.String("image_key", key),
				slog.Any("error", err),
			)
		}
	}
}
