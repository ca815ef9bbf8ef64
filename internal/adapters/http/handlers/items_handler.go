package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/items"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// ItemsActor manages the items on the acting user's lists.
type ItemsActor interface {
	RequestItems(spec items.RequestItemsSpecification, b items.RequestItemsBoundaries) (items.RequestItemsResult, error)
	CreateItem(spec items.CreateItemSpecification, b items.CreateItemBoundaries) (items.ItemResult, error)
	DeleteItem(spec items.DeleteItemSpecification, b items.DeleteItemBoundaries) (items.ItemResult, error)
}

// ItemsHandler handles the items of the signed-in user's lists.
type ItemsHandler struct {
	actor  ItemsActor
	images ports.ImageStoreProvider
}

// NewItemsHandler creates a new ItemsHandler. Item images are stored in
// images.
func NewItemsHandler(actor ItemsActor, images ports.ImageStoreProvider) *ItemsHandler {
	return &ItemsHandler{actor: actor, images: images}
}

// RequestItems handles GET /api/v1/me/lists/{listID}/items?sort=&order=.
// Without a sort parameter the list's own order applies.
func (h *ItemsHandler) RequestItems(w http.ResponseWriter, r *http.Request) {
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
	sort, err := dto.SortFromQuery(r.URL.Query(), item.SortTable)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	spec := items.RequestItemsSpecificationForUser(userID, listID)
	if sort.Property != "" {
		spec = spec.SortedBy(sort)
	}
	res, err := h.actor.RequestItems(spec, items.RequestItemsBoundariesWith(requestContext(r)))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToItemsResponse(res))
}

// CreateItem handles POST /api/v1/me/lists/{listID}/items.
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
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
	var req dto.CreateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.actor.CreateItem(
		items.CreateItemSpecificationForUser(userID, listID, req.Values()),
		items.CreateItemBoundariesWith(requestContext(r), h.images),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToItemResponse(res))
}

// DeleteItem handles DELETE /api/v1/me/items/{itemID}.
func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	itemID, err := parseParam(r, paramItemID, item.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if _, err := h.actor.DeleteItem(
		items.DeleteItemSpecificationForUser(userID, itemID),
		items.DeleteItemBoundariesWith(requestContext(r)),
	); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
