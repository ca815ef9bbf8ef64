package ports

import (
	"context"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/observer"
)

// EmailSendResult is the outcome of a successful email send.
type EmailSendResult struct {
	MessageID string
	SentAt    time.Time
}

// EmailSendingProvider sends invitation emails.
type EmailSendingProvider interface {
	// SendInvitation emails the invitation code to the invitation's address
	// on behalf of issuer.
	SendInvitation(ctx context.Context, inv invitation.Representation, issuer user.PublicRepresentation) (*EmailSendResult, error)
}

// NotificationChannel names a transport a user can be notified on.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelPushover NotificationChannel = "pushover"
)

// NotificationSendingResult is the per-channel outcome of a notification.
type NotificationSendingResult struct {
	Channel NotificationChannel
	Success bool
	Err     error
}

// NotificationSendingProvider sends notifications to users.
type NotificationSendingProvider interface {
	// SendTestNotification sends a test message to recipient on each of the
	// given channels. It returns one result per channel; a failing channel
	// is reported in its result rather than as the returned error.
	SendTestNotification(ctx context.Context, recipient user.Representation, channels []NotificationChannel) ([]NotificationSendingResult, error)
}

// ImageStoreProvider stores image blobs keyed by an entity's image key.
type ImageStoreProvider interface {
	// StoreImage fetches the image at sourceURL, stores it under key and
	// returns the URL the stored image is served from.
	StoreImage(ctx context.Context, key, sourceURL string) (string, error)
	// RemoveImage deletes the image stored under key. Removing a missing
	// key is not an error.
	RemoveImage(ctx context.Context, key string) error
}

// Event is a domain event recorded after a successful mutation.
type Event struct {
	Kind       string
	SubjectID  string
	EntityID   string
	OccurredAt time.Time
	Attributes map[string]string
}

// EventRecordingProvider records domain events. Failures never fail the
// action that produced the event.
type EventRecordingProvider interface {
	RecordEvent(ctx context.Context, e Event) error
}

// Message is a human-readable audit message.
type Message struct {
	Text       string
	Attributes map[string]string
}

// MessageLoggingProvider logs audit messages. Failures never fail the action
// that produced the message.
type MessageLoggingProvider interface {
	LogMessage(ctx context.Context, m Message) error
}

// Observable is implemented by repositories that announce entity creation
// and deletion to subscribers.
type Observable[E any] interface {
	Subscribe(o observer.Observer[E]) observer.Token
	Unsubscribe(token observer.Token) bool
}
