package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/notifications"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// NotificationsActor sends test notifications.
type NotificationsActor interface {
	TestNotifications(spec notifications.TestNotificationsSpecification, b notifications.TestNotificationsBoundaries) (notifications.TestNotificationsResult, error)
}

// NotificationsHandler handles the signed-in user's notification settings.
type NotificationsHandler struct {
	actor  NotificationsActor
	sender ports.NotificationSendingProvider
}

// NewNotificationsHandler creates a new NotificationsHandler.
func NewNotificationsHandler(actor NotificationsActor, sender ports.NotificationSendingProvider) *NotificationsHandler {
	return &NotificationsHandler{actor: actor, sender: sender}
}

// TestNotifications handles POST /api/v1/me/notifications/test. A channel
// that fails is reported in the body; the response is still 200.
func (h *NotificationsHandler) TestNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.TestNotifications(
		notifications.TestNotificationsSpecificationForUser(userID),
		notifications.TestNotificationsBoundariesWith(requestContext(r), h.sender),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToNotificationsResponse(res))
}
