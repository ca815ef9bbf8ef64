// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/handlers"
	"github.com/edmw/wishlist-sub003/internal/domain"
)

// Handlers groups the route handlers served by the router.
type Handlers struct {
	Health        *handlers.HealthHandler
	Welcome       *handlers.WelcomeHandler
	Wishlist      *handlers.WishlistHandler
	Lists         *handlers.ListsHandler
	Items         *handlers.ItemsHandler
	Favorites     *handlers.FavoritesHandler
	Invitations   *handlers.InvitationsHandler
	Notifications *handlers.NotificationsHandler
}

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given.
func NewRouter(h Handlers, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteErrorResponse(w, r, domain.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		dto.WriteProblem(w, r, http.StatusMethodNotAllowed, "method "+r.Method+" is not allowed")
	})

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/welcome", h.Welcome.Welcome)

		// Wishlists as their viewers see them.
		r.Get("/wishlists/{listID}", h.Wishlist.PresentWishlist)
		r.Put("/wishlists/{listID}/items/{itemID}/reservation", h.Wishlist.AddReservation)
		r.Delete("/wishlists/{listID}/items/{itemID}/reservation", h.Wishlist.RemoveReservation)

		// The signed-in user's own resources.
		r.Route("/me", func(r chi.Router) {
			r.Get("/lists", h.Lists.RequestLists)
			r.Post("/lists", h.Lists.CreateList)
			r.Put("/lists/{listID}", h.Lists.UpdateList)
			r.Delete("/lists/{listID}", h.Lists.DeleteList)

			r.Get("/lists/{listID}/items", h.Items.RequestItems)
			r.Post("/lists/{listID}/items", h.Items.CreateItem)
			r.Delete("/items/{itemID}", h.Items.DeleteItem)

			r.Get("/favorites", h.Favorites.RequestFavorites)
			r.Put("/favorites/{itemID}", h.Favorites.AddFavorite)
			r.Delete("/favorites/{itemID}", h.Favorites.DeleteFavorite)

			r.Get("/invitations", h.Invitations.RequestInvitations)
			r.Post("/invitations", h.Invitations.CreateInvitation)
			r.Delete("/invitations/{invitationID}", h.Invitations.RevokeInvitation)

			r.Post("/notifications/test", h.Notifications.TestNotifications)
		})
	})

	return r
}
