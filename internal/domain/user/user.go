// Package user defines the User entity, the acting subject of every action.
package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edmw/wishlist-sub003/internal/domain"
)

// ID identifies a User. It is not interchangeable with other entity IDs.
type ID uuid.UUID

// NewID returns a random ID.
func NewID() ID { return ID(uuid.New()) }

// ParseID parses a textual user ID.
func ParseID(s string) (ID, error) {
	u, err := domain.ParseUUID("user_id", s)
	return ID(u), err
}

// String implements fmt.Stringer.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is unset.
func (id ID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// UUID returns the underlying UUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// Settings holds per-user preferences.
type Settings struct {
	Notifications Notifications
}

// Notifications selects the channels a user can be notified on.
type Notifications struct {
	EmailEnabled    bool
	PushoverEnabled bool
	PushoverKey     string
}

// User is a registered person. Confidant marks the elevated relationship
// that unlocks confidential features such as issuing invitations.
type User struct {
	ID             ID
	Identification string
	Email          string
	FullName       string
	FirstName      string
	NickName       string
	Language       string
	PictureURL     string
	Confidant      bool
	Settings       Settings
	FirstLogin     *time.Time
	LastLogin      *time.Time
}

// DisplayName returns the friendliest name available.
func (u *User) DisplayName() string {
	for _, n := range []string{u.NickName, u.FirstName, u.FullName} {
		if s := strings.TrimSpace(n); s != "" {
			return s
		}
	}
	return u.Identification
}

// Validate checks business rules for the User entity.
func (u *User) Validate() error {
	fields := domain.Fields{}

	if strings.TrimSpace(u.Identification) == "" {
		fields["identification"] = domain.MsgRequired
	}
	if strings.TrimSpace(u.Email) == "" {
		fields["email"] = domain.MsgRequired
	} else if _, err := mail.ParseAddress(u.Email); err != nil {
		fields["email"] = "must be a valid address"
	}
	if strings.TrimSpace(u.FullName) == "" {
		fields["full_name"] = domain.MsgRequired
	}
	if u.Settings.Notifications.PushoverEnabled && strings.TrimSpace(u.Settings.Notifications.PushoverKey) == "" {
		fields["settings.notifications.pushover_key"] = "is required when pushover is enabled"
	}

	return fields.Err()
}

// Representation is the serialization-safe projection of a User.
type Representation struct {
	ID          string                 `json:"id"`
	Email       string                 `json:"email,omitempty"`
	DisplayName string                 `json:"displayName"`
	FullName    string                 `json:"fullName"`
	FirstName   string                 `json:"firstName,omitempty"`
	NickName    string                 `json:"nickName,omitempty"`
	Language    string                 `json:"language,omitempty"`
	PictureURL  string                 `json:"pictureURL,omitempty"`
	Confidant   bool                   `json:"confidant"`
	Settings    SettingsRepresentation `json:"settings"`
	FirstLogin  *time.Time             `json:"firstLogin,omitempty"`
	LastLogin   *time.Time             `json:"lastLogin,omitempty"`
}

// SettingsRepresentation projects Settings.
type SettingsRepresentation struct {
	EmailNotifications    bool   `json:"emailNotifications"`
	PushoverNotifications bool   `json:"pushoverNotifications"`
	PushoverKey           string `json:"-"`
}

// Represent maps the user to its Representation.
func (u *User) Represent() Representation {
	return Representation{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		FullName:    u.FullName,
		FirstName:   u.FirstName,
		NickName:    u.NickName,
		Language:    u.Language,
		PictureURL:  u.PictureURL,
		Confidant:   u.Confidant,
		Settings: SettingsRepresentation{
			EmailNotifications:    u.Settings.Notifications.EmailEnabled,
			PushoverNotifications: u.Settings.Notifications.PushoverEnabled,
			PushoverKey:           u.Settings.Notifications.PushoverKey,
		},
		FirstLogin: u.FirstLogin,
		LastLogin:  u.LastLogin,
	}
}

// PublicRepresentation is what other users get to see of a User.
type PublicRepresentation struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureURL,omitempty"`
}

// RepresentPublicly maps the user to its PublicRepresentation.
func (u *User) RepresentPublicly() PublicRepresentation {
	return PublicRepresentation{
		ID:          u.ID.String(),
		DisplayName: u.DisplayName(),
		PictureURL:  u.PictureURL,
	}
}
