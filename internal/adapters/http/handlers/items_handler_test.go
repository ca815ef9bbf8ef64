package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/handlers"
	"github.com/edmw/wishlist-sub003/internal/adapters/memory"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
)

func TestRequestItems(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewItemsHandler(f.items, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodGet, "/api/v1/me/lists/x/items", nil, f.owner), listParams(f.public.ID))
	h.RequestItems(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.ItemsResponse](t, rec)
	assert.Equal(t, f.public.ID.String(), resp.List.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Bike", resp.Items[0].Title)
}

func TestRequestItems_NotOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewItemsHandler(f.items, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodGet, "/api/v1/me/lists/x/items", nil, f.guest), listParams(f.public.ID))
	h.RequestItems(rec, req)

	requireStatus(t, rec, http.StatusForbidden)
}

func TestCreateItem_StoresImage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	images := memory.NewImageStore("https://img.test")
	h := handlers.NewItemsHandler(f.items, images)

	body := jsonBody(t, dto.CreateItemRequest{
		Title:      "Kite",
		Preference: "high",
		ImageURL:   "https://shop.test/kite.png",
	})
	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodPost, "/api/v1/me/lists/x/items", body, f.owner), listParams(f.public.ID))
	h.CreateItem(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	resp := decodeJSON[dto.ItemResponse](t, rec)
	assert.Equal(t, "Kite", resp.Item.Title)
	assert.Equal(t, "high", resp.Item.Preference)
	assert.Equal(t, images.URL(resp.Item.ID), resp.Item.ImageURL)
	assert.True(t, images.Has(resp.Item.ID))
}

func TestCreateItem_Invalid(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewItemsHandler(f.items, nil)

	body := jsonBody(t, dto.CreateItemRequest{Title: "Kite", Preference: "urgent", URL: "shop.test/kite"})
	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodPost, "/api/v1/me/lists/x/items", body, f.owner), listParams(f.public.ID))
	h.CreateItem(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "body.preference", resp.Errors[0].Location)
	assert.Equal(t, "body.url", resp.Errors[1].Location)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewItemsHandler(f.items, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodDelete, "/api/v1/me/items/x", nil, f.owner),
		map[string]string{"itemID": f.item.ID.String()})
	h.DeleteItem(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
	_, err := f.store.Items.Find(t.Context(), f.item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItem_Unknown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewItemsHandler(f.items, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(newRequest(http.MethodDelete, "/api/v1/me/items/x", nil, f.owner),
		map[string]string{"itemID": item.NewID().String()})
	h.DeleteItem(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}
