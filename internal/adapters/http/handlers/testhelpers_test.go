package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	"github.com/edmw/wishlist-sub003/internal/adapters/memory"
	"github.com/edmw/wishlist-sub003/internal/app/favorites"
	"github.com/edmw/wishlist-sub003/internal/app/invitations"
	"github.com/edmw/wishlist-sub003/internal/app/items"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/app/notifications"
	"github.com/edmw/wishlist-sub003/internal/app/welcome"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

// fixture is a populated store: owner, a confidant with email enabled, has
// a public and a private list, the public one holding a single item.
type fixture struct {
	store   *memory.Store
	owner   *user.User
	guest   *user.User
	public  *list.List
	private *list.List
	item    *item.Item

	wishlist      *wishlist.Actor
	lists         *lists.Actor
	favorites     *favorites.Actor
	welcome       *welcome.Actor
	items         *items.Actor
	invitations   *invitations.Actor
	notifications *notifications.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New(func() time.Time { return testTime })

	owner, err := store.Users.Create(ctx, &user.User{
		Identification: "owner",
		FullName:       "Ada Owner",
		Email:          "ada@example.com",
		Confidant:      true,
		Settings:       user.Settings{Notifications: user.Notifications{EmailEnabled: true}},
	})
	require.NoError(t, err)
	guest, err := store.Users.Create(ctx, &user.User{Identification: "guest", FullName: "Grace Guest"})
	require.NoError(t, err)
	public, err := store.Lists.Create(ctx, &list.List{Title: "Birthday", Visibility: access.Public, OwnerID: owner.ID})
	require.NoError(t, err)
	private, err := store.Lists.Create(ctx, &list.List{Title: "Secret", Visibility: access.Private, OwnerID: owner.ID})
	require.NoError(t, err)
	it, err := store.Items.Create(ctx, &item.Item{Title: "Bike", ListID: public.ID})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		owner:   owner,
		guest:   guest,
		public:  public,
		private: private,
		item:    it,
		wishlist: wishlist.NewActor(wishlist.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
		}),
		lists: lists.NewActor(lists.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
		}),
		favorites: favorites.NewActor(favorites.Deps{
			Users:     store.Users,
			Lists:     store.Lists,
			Items:     store.Items,
			Favorites: store.Favorites,
		}),
		welcome: welcome.NewActor(welcome.Deps{
			Users:     store.Users,
			Lists:     store.Lists,
			Items:     store.Items,
			Favorites: store.Favorites,
		}),
		items: items.NewActor(items.Deps{
			Users:        store.Users,
			Lists:        store.Lists,
			Items:        store.Items,
			Reservations: store.Reservations,
			Favorites:    store.Favorites,
		}),
		invitations: invitations.NewActor(invitations.Deps{
			Users:       store.Users,
			Invitations: store.Invitations,
			Now:         func() time.Time { return testTime },
		}),
		notifications: notifications.NewActor(notifications.Deps{Users: store.Users}),
	}
}

// newRequest builds a request acting as subject, nil for anonymous.
func newRequest(method, target string, body *bytes.Buffer, subject *user.User) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if subject != nil {
		req = req.WithContext(middleware.WithSubject(req.Context(), subject.ID))
	}
	return req
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
