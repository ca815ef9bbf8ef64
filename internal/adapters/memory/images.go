package memory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

var _ ports.ImageStoreProvider = (*ImageStore)(nil)

// ImageStore remembers the source URL of every stored image and serves it
// from baseURL/images/<key>.
type ImageStore struct {
	baseURL string
	rows    *table[string, string]
}

// NewImageStore creates an ImageStore serving from baseURL.
func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		rows:    newTable[string, string](),
	}
}

// StoreImage records sourceURL under key and returns the serving URL.
// Storing a key again overwrites it.
func (s *ImageStore) StoreImage(_ context.Context, key, sourceURL string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", domain.NewFieldError("image_key", domain.MsgRequired)
	}
	u, err := url.Parse(sourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", domain.NewFieldError("image_url", "must be an absolute URL")
	}
	s.rows.put(key, sourceURL)
	return s.URL(key), nil
}

// RemoveImage forgets key. Removing a missing key is a no-op.
func (s *ImageStore) RemoveImage(_ context.Context, key string) error {
	s.rows.remove(key)
	return nil
}

// Has reports whether an image is stored under key.
func (s *ImageStore) Has(key string) bool {
	_, ok := s.rows.get(key)
	return ok
}

// Len returns the number of stored images.
func (s *ImageStore) Len() int {
	return s.rows.count()
}

// URL returns the serving URL for key.
func (s *ImageStore) URL(key string) string {
	return fmt.Sprintf("%s/images/%s", s.baseURL, url.PathEscape(key))
}
