package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/favorites"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
)

// FavoritesActor manages the acting user's favorites.
type FavoritesActor interface {
	RequestFavorites(spec favorites.RequestFavoritesSpecification, b favorites.RequestFavoritesBoundaries) (favorites.RequestFavoritesResult, error)
	AddFavorite(spec favorites.FavoriteSpecification, b favorites.FavoriteBoundaries) (favorites.FavoriteResult, error)
	DeleteFavorite(spec favorites.FavoriteSpecification, b favorites.FavoriteBoundaries) (favorites.FavoriteResult, error)
}

// FavoritesHandler handles the signed-in user's favorites.
type FavoritesHandler struct {
	actor FavoritesActor
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(actor FavoritesActor) *FavoritesHandler {
	return &FavoritesHandler{actor: actor}
}

// RequestFavorites handles GET /api/v1/me/favorites?sort=&order=.
func (h *FavoritesHandler) RequestFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	sort, err := dto.SortFromQuery(r.URL.Query(), favorite.SortTable)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.RequestFavorites(
		favorites.RequestFavoritesSpecificationForUser(userID).SortedBy(sort),
		favorites.RequestFavoritesBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToFavoritesResponse(res))
}

// AddFavorite handles PUT /api/v1/me/favorites/{itemID}.
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	spec, ok := favoriteSpec(w, r)
	if !ok {
		return
	}

	res, err := h.actor.AddFavorite(spec, favorites.FavoriteBoundariesWith(requestContext(r)))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToFavoriteResponse(res))
}

// DeleteFavorite handles DELETE /api/v1/me/favorites/{itemID}.
func (h *FavoritesHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	spec, ok := favoriteSpec(w, r)
	if !ok {
		return
	}

	if _, err := h.actor.DeleteFavorite(spec, favorites.FavoriteBoundariesWith(requestContext(r))); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func favoriteSpec(w http.ResponseWriter, r *http.Request) (favorites.FavoriteSpecification, bool) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return favorites.FavoriteSpecification{}, false
	}
	itemID, err := parseParam(r, paramItemID, item.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return favorites.FavoriteSpecification{}, false
	}
	return favorites.FavoriteSpecificationForUser(userID, itemID), true
}
