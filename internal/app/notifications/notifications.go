// Package notifications implements the actions on a user's notification
// channels.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/app/action"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/app/lookup"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

const actorName = "notifications"

// ErrInvalidUser is returned when the user does not exist.
var ErrInvalidUser = &action.ReferenceError{Actor: actorName, Entity: "user"}

// ErrNoChannels is returned when the user has no usable notification
// channel enabled.
var ErrNoChannels = domain.NewFieldError("settings.notifications", "no channel enabled")

// errNoProvider is returned when the action runs without a provider.
var errNoProvider = errors.New("notifications: no sending provider")

// Deps are the repositories and shared services of the Actor.
type Deps struct {
	Users     ports.UserRepository
	Performer *action.Performer
	Recorder  *action.Recorder
}

// Actor serves the notification actions. It is safe for concurrent use.
type Actor struct {
	deps Deps
}

// NewActor creates an Actor.
func NewActor(deps Deps) *Actor {
	if deps.Performer == nil {
		deps.Performer = action.NewPerformer(nil)
	}
	return &Actor{deps: deps}
}

// Channels returns the channels enabled in u's settings that carry the
// address they need.
func Channels(u user.User) []ports.NotificationChannel {
	var channels []ports.NotificationChannel
	n := u.Settings.Notifications
	if n.EmailEnabled && strings.TrimSpace(u.Email) != "" {
		channels = append(channels, ports.ChannelEmail)
	}
	if n.PushoverEnabled && strings.TrimSpace(n.PushoverKey) != "" {
		channels = append(channels, ports.ChannelPushover)
	}
	return channels
}

// TestNotificationsSpecification selects the user to notify.
type TestNotificationsSpecification struct {
	userID user.ID
}

// TestNotificationsSpecificationForUser notifies userID.
func TestNotificationsSpecificationForUser(id user.ID) TestNotificationsSpecification {
	return TestNotificationsSpecification{userID: id}
}

// TestNotificationsBoundaries carries the execution context and the
// provider that delivers the notifications.
type TestNotificationsBoundaries struct {
	action.Boundaries
	sender ports.NotificationSendingProvider
}

// TestNotificationsBoundariesWith executes on rc and sends through sender.
func TestNotificationsBoundariesWith(rc *appctx.RequestContext, sender ports.NotificationSendingProvider) TestNotificationsBoundaries {
	return TestNotificationsBoundaries{Boundaries: action.BoundariesWith(rc), sender: sender}
}

// ChannelResult is the outcome of one channel. Error is a fixed message
// naming the channel; the provider's cause is logged only.
type ChannelResult struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TestNotificationsResult holds the user and one result per channel.
type TestNotificationsResult struct {
	User     user.Representation
	Channels []ChannelResult
}

// TestNotifications sends a test notification on every channel the user
// enabled. Failing channels are reported in the result.
func (a *Actor) TestNotifications(spec TestNotificationsSpecification, b TestNotificationsBoundaries) (TestNotificationsResult, error) {
	return action.Perform(a.deps.Performer, b.Boundaries, "TestNotifications",
		func(ctx context.Context, rc *appctx.RequestContext) (TestNotificationsResult, error) {
			if b.sender == nil {
				return TestNotificationsResult{}, errNoProvider
			}
			u, err := lookup.User(rc, a.deps.Users, spec.userID)
			if err != nil {
				return TestNotificationsResult{}, action.Reference(err, ErrInvalidUser)
			}
			channels := Channels(u)
			if len(channels) == 0 {
				return TestNotificationsResult{}, ErrNoChannels
			}

			sent, err := b.sender.SendTestNotification(ctx, u.Represent(), channels)
			if err != nil {
				return TestNotificationsResult{}, fmt.Errorf("sending test notification: %w", err)
			}

			results := make([]ChannelResult, len(sent))
			succeeded := 0
			for i, r := range sent {
				results[i] = ChannelResult{Channel: string(r.Channel), Success: r.Success}
				if r.Err != nil {
					results[i].Error = failureMessage(r.Channel)
					logging.FromContext(ctx).WarnContext(ctx, "test notification failed",
						slog.String("operation", "TestNotifications"),
						slog.String("channel", string(r.Channel)),
						slog.Any("error", r.Err),
					)
				}
				if r.Success {
					succeeded++
				}
			}

			a.deps.Recorder.Message(ctx, rc, ports.Message{
				Text: "test notification sent",
				Attributes: map[string]string{
					"user_id":   u.ID.String(),
					"channels":  fmt.Sprint(len(results)),
					"succeeded": fmt.Sprint(succeeded),
				},
			})
			return TestNotificationsResult{User: u.Represent(), Channels: results}, nil
		})
}

func failureMessage(c ports.NotificationChannel) string {
	return "delivery via " + string(c) + " failed"
}
