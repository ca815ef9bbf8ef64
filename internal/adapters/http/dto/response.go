// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
//
// Responses embed the domain representations unchanged; the types here only
// shape the envelopes around them.
package dto

import (
	"github.com/edmw/wishlist-sub003/internal/app/favorites"
	"github.com/edmw/wishlist-sub003/internal/app/invitations"
	"github.com/edmw/wishlist-sub003/internal/app/items"
	"github.com/edmw/wishlist-sub003/internal/app/lists"
	"github.com/edmw/wishlist-sub003/internal/app/notifications"
	"github.com/edmw/wishlist-sub003/internal/app/welcome"
	"github.com/edmw/wishlist-sub003/internal/app/wishlist"
	"github.com/edmw/wishlist-sub003/internal/domain/favorite"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/item"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
	"github.com/edmw/wishlist-sub003/internal/domain/reservation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// WelcomeResponse is the landing page. Lists and favorites are present only
// for signed-in users.
type WelcomeResponse struct {
	User      *user.Representation      `json:"user"`
	Lists     []list.Representation     `json:"lists,omitempty"`
	Favorites []favorite.Representation `json:"favorites,omitempty"`
}

// ToPublicWelcomeResponse converts the anonymous landing page.
func ToPublicWelcomeResponse(res welcome.PresentPubliclyResult) WelcomeResponse {
	return WelcomeResponse{User: res.User}
}

// ToWelcomeResponse converts the signed-in landing page.
func ToWelcomeResponse(res welcome.RequestWelcomeResult) WelcomeResponse {
	u := res.User
	return WelcomeResponse{
		User:      &u,
		Lists:     res.Lists,
		Favorites: res.Favorites,
	}
}

// WishlistResponse is a list as its viewer may see it.
type WishlistResponse struct {
	Owner   user.PublicRepresentation `json:"owner"`
	List    list.Representation       `json:"list"`
	Items   []item.Representation     `json:"items"`
	IsOwner bool                      `json:"isOwner"`
}

// ToWishlistResponse converts a presented wishlist.
func ToWishlistResponse(res wishlist.PresentWishlistResult) WishlistResponse {
	return WishlistResponse{
		Owner:   res.Owner,
		List:    res.List,
		Items:   nonNil(res.Items),
		IsOwner: res.IsOwner,
	}
}

// ReservationResponse is an item with its reservation.
type ReservationResponse struct {
	Item        item.Representation        `json:"item"`
	Reservation reservation.Representation `json:"reservation"`
}

// ToReservationResponse converts the outcome of a reservation change.
func ToReservationResponse(res wishlist.ReservationResult) ReservationResponse {
	return ReservationResponse{Item: res.Item, Reservation: res.Reservation}
}

// ListResponse is a single list.
type ListResponse struct {
	List list.Representation `json:"list"`
}

// ToListResponse converts the outcome of a list change.
func ToListResponse(res lists.ListResult) ListResponse {
	return ListResponse{List: res.List}
}

// ListsResponse represents the lists of a user.
type ListsResponse struct {
	Lists []list.Representation `json:"lists"`
	Count int                   `json:"count"`
}

// ToListsResponse converts the lists of a user.
func ToListsResponse(res lists.RequestListsResult) ListsResponse {
	return ListsResponse{Lists: nonNil(res.Lists), Count: len(res.Lists)}
}

// FavoritesResponse represents the favorites of a user.
type FavoritesResponse struct {
	Favorites []favorite.Representation `json:"favorites"`
	Count     int                       `json:"count"`
}

// ToFavoritesResponse converts the favorites of a user.
func ToFavoritesResponse(res favorites.RequestFavoritesResult) FavoritesResponse {
	return FavoritesResponse{Favorites: nonNil(res.Favorites), Count: len(res.Favorites)}
}

// FavoriteResponse is a single favorite.
type FavoriteResponse struct {
	Favorite favorite.Representation `json:"favorite"`
}

// ToFavoriteResponse converts the outcome of a favorite change.
func ToFavoriteResponse(res favorites.FavoriteResult) FavoriteResponse {
	return FavoriteResponse{Favorite: res.Favorite}
}

// ItemsResponse is a list with its items, as its owner sees them.
type ItemsResponse struct {
	List  list.Representation   `json:"list"`
	Items []item.Representation `json:"items"`
}

// ToItemsResponse converts the items of a list.
func ToItemsResponse(res items.RequestItemsResult) ItemsResponse {
	return ItemsResponse{List: res.List, Items: nonNil(res.Items)}
}

// ItemResponse is a single item.
type ItemResponse struct {
	Item item.Representation `json:"item"`
}

// ToItemResponse converts the outcome of an item change.
func ToItemResponse(res items.ItemResult) ItemResponse {
	return ItemResponse{Item: res.Item}
}

// InvitationsResponse represents the invitations a user issued.
type InvitationsResponse struct {
	Invitations []invitation.Representation `json:"invitations"`
	Count       int                         `json:"count"`
}

// ToInvitationsResponse converts the invitations of a user.
func ToInvitationsResponse(res invitations.RequestInvitationsResult) InvitationsResponse {
	return InvitationsResponse{Invitations: nonNil(res.Invitations), Count: len(res.Invitations)}
}

// InvitationResponse is a single invitation.
type InvitationResponse struct {
	Invitation invitation.Representation `json:"invitation"`
}

// ToInvitationResponse converts the outcome of an invitation change.
func ToInvitationResponse(res invitations.InvitationResult) InvitationResponse {
	return InvitationResponse{Invitation: res.Invitation}
}

// NotificationsResponse reports the outcome per channel of a test
// notification.
type NotificationsResponse struct {
	Channels []notifications.ChannelResult `json:"channels"`
}

// ToNotificationsResponse converts the outcome of a test notification.
func ToNotificationsResponse(res notifications.TestNotificationsResult) NotificationsResponse {
	return NotificationsResponse{Channels: nonNil(res.Channels)}
}

// nonNil makes empty collections encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
