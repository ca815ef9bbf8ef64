package dto_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/favorites"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/app/welcome"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	return string(b)
}

func TestToWishlistResponse_EmptyItemsEncodeAsArray(t *testing.T) {
	t.Parallel()

	resp := dto.ToWishlistResponse(wishlist.PresentWishlistResult{
		Owner: user.PublicRepresentation{ID: "owner", DisplayName: "Ada"},
		List:  list.Representation{ID: "list", Title: "Birthday"},
	})

	out := encode(t, resp)
	if !strings.Contains(out, `"items":[]`) {
		t.Errorf("encoded = %s, want empty items array", out)
	}
	if !strings.Contains(out, `"isOwner":false`) {
		t.Errorf("encoded = %s, want isOwner false", out)
	}
}

func TestToListsResponse_Count(t *testing.T) {
	t.Parallel()

	resp := dto.ToListsResponse(lists.RequestListsResult{
		Lists: []list.Representation{{ID: "a"}, {ID: "b"}},
	})

	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
	if len(resp.Lists) != 2 {
		t.Errorf("len(Lists) = %d, want 2", len(resp.Lists))
	}
}

func TestToFavoritesResponse_Empty(t *testing.T) {
	t.Parallel()

	out := encode(t, dto.ToFavoritesResponse(favorites.RequestFavoritesResult{}))

	if out != `{"favorites":[],"count":0}` {
		t.Errorf("encoded = %s, want empty favorites", out)
	}
}

func TestToPublicWelcomeResponse_Anonymous(t *testing.T) {
	t.Parallel()

	out := encode(t, dto.ToPublicWelcomeResponse(welcome.PresentPubliclyResult{}))

	if out != `{"user":null}` {
		t.Errorf("encoded = %s, want only a null user", out)
	}
}

func TestToWelcomeResponse_SignedIn(t *testing.T) {
	t.Parallel()

	resp := dto.ToWelcomeResponse(welcome.RequestWelcomeResult{
		User:  user.Representation{ID: "u1"},
		Lists: []list.Representation{{ID: "l1"}},
	})

	if resp.User == nil || resp.User.ID != "u1" {
		t.Fatalf("User = %+v, want u1", resp.User)
	}
	if len(resp.Lists) != 1 {
		t.Errorf("len(Lists) = %d, want 1", len(resp.Lists))
	}
}
