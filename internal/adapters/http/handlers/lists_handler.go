package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
)

// ListsActor manages the lists of the acting user.
type ListsActor interface {
	RequestLists(spec lists.RequestListsSpecification, b lists.RequestListsBoundaries) (lists.RequestListsResult, error)
	CreateList(spec lists.CreateListSpecification, b lists.CreateListBoundaries) (lists.ListResult, error)
	UpdateList(spec lists.UpdateListSpecification, b lists.UpdateListBoundaries) (lists.ListResult, error)
	DeleteList(spec lists.DeleteListSpecification, b lists.DeleteListBoundaries) (lists.ListResult, error)
}

// ListsHandler handles the signed-in user's own lists.
type ListsHandler struct {
	actor ListsActor
}

// NewListsHandler creates a new ListsHandler.
func NewListsHandler(actor ListsActor) *ListsHandler {
	return &ListsHandler{actor: actor}
}

// RequestLists handles GET /api/v1/me/lists?sort=&order=.
func (h *ListsHandler) RequestLists(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	sort, err := dto.SortFromQuery(r.URL.Query(), list.SortTable)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.RequestLists(
		lists.RequestListsSpecificationForUser(userID).SortedBy(sort).IncludingItemsCount(),
		lists.RequestListsBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToListsResponse(res))
}

// CreateList handles POST /api/v1/me/lists.
func (h *ListsHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	var req dto.CreateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.actor.CreateList(
		lists.CreateListSpecificationForUser(userID, req.Values()),
		lists.CreateListBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/wishlists/"+res.List.ID)
	writeJSON(w, r, http.StatusCreated, dto.ToListResponse(res))
}

// UpdateList handles PUT /api/v1/me/lists/{listID}.
func (h *ListsHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	listID, err := parseParam(r, paramListID, list.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	var req dto.UpdateListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.actor.UpdateList(
		lists.UpdateListSpecificationForUser(userID, listID, req.Values()),
		lists.UpdateListBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToListResponse(res))
}

// DeleteList handles DELETE /api/v1/me/lists/{listID}.
func (h *ListsHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	listID, err := parseParam(r, paramListID, list.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if _, err := h.actor.DeleteList(
		lists.DeleteListSpecificationForUser(userID, listID),
		lists.DeleteListBoundariesWith(requestContext(r)),
	); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
