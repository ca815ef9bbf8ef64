// Package handlers provides HTTP request handlers for the service's API endpoints.
//
// Handlers parse the request, run one action on a fresh request context
// and encode its result. Authorization is the actions' business; handlers
// only require a signed-in user where an action cannot run without one.
package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
)

// WishlistActor presents lists to their viewers and manages reservations.
type WishlistActor interface {
	PresentWishlist(spec wishlist.PresentWishlistSpecification, b wishlist.PresentWishlistBoundaries) (wishlist.PresentWishlistResult, error)
	AddReservationToItem(spec wishlist.ReservationSpecification, b wishlist.ReservationBoundaries) (wishlist.ReservationResult, error)
	RemoveReservationFromItem(spec wishlist.ReservationSpecification, b wishlist.ReservationBoundaries) (wishlist.ReservationResult, error)
}

// WishlistHandler handles the public view of a list and reservations.
type WishlistHandler struct {
	actor WishlistActor
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(actor WishlistActor) *WishlistHandler {
	return &WishlistHandler{actor: actor}
}

// PresentWishlist handles GET /api/v1/wishlists/{listID}. Anonymous viewers
// are allowed; the list's visibility decides.
func (h *WishlistHandler) PresentWishlist(w http.ResponseWriter, r *http.Request) {
	listID, err := parseParam(r, paramListID, list.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.PresentWishlist(
		wishlist.PresentWishlistSpecificationForList(listID).ViewedBy(middleware.SubjectFromContext(r.Context())),
		wishlist.PresentWishlistBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToWishlistResponse(res))
}

// AddReservation handles PUT /api/v1/wishlists/{listID}/items/{itemID}/reservation.
func (h *WishlistHandler) AddReservation(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.reservationSpec(w, r)
	if !ok {
		return
	}

	res, err := h.actor.AddReservationToItem(spec, wishlist.ReservationBoundariesWith(requestContext(r)))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToReservationResponse(res))
}

// RemoveReservation handles DELETE /api/v1/wishlists/{listID}/items/{itemID}/reservation.
func (h *WishlistHandler) RemoveReservation(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.reservationSpec(w, r)
	if !ok {
		return
	}

	if _, err := h.actor.RemoveReservationFromItem(spec, wishlist.ReservationBoundariesWith(requestContext(r))); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// reservationSpec reads the acting user and the addressed item. On failure
// it writes an error response and returns false.
func (h *WishlistHandler) reservationSpec(w http.ResponseWriter, r *http.Request) (wishlist.ReservationSpecification, bool) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return wishlist.ReservationSpecification{}, false
	}
	listID, err := parseParam(r, paramListID, list.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return wishlist.ReservationSpecification{}, false
	}
	itemID, err := parseParam(r, paramItemID, item.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return wishlist.ReservationSpecification{}, false
	}
	return wishlist.ReservationSpecificationForUser(userID, itemID).OnList(listID), true
}
