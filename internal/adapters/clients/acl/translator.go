package acl

import (
	"fmt"
	"strings"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// Notification texts.
const (
	testTitle   = "Wishlist"
	testMessage = "This is a test notification from Wishlist."
)

// toInvitationMail builds the invitation email for inv on behalf of issuer.
func toInvitationMail(from string, inv invitation.Representation, issuer user.PublicRepresentation) mailMessageDTO {
	name := strings.TrimSpace(issuer.DisplayName)
	if name == "" {
		name = "A friend"
	}
	return mailMessageDTO{
		From:    from,
		To:      []string{inv.Email},
		Subject: fmt.Sprintf("%s invited you to Wishlist", name),
		Text: fmt.Sprintf("%s invited you to share wishlists.\n\nYour invitation code: %s\n",
			name, inv.Code),
		Tags:    []string{"invitation"},
		Headers: map[string]string{"X-Wishlist-Invitation": inv.ID},
	}
}

// toTestMail builds the test notification email for recipient.
func toTestMail(from string, recipient user.Representation) mailMessageDTO {
	return mailMessageDTO{
		From:    from,
		To:      []string{recipient.Email},
		Subject: testTitle,
		Text:    fmt.Sprintf("Hello %s,\n\n%s\n", recipient.DisplayName, testMessage),
		Tags:    []string{"notification", "test"},
	}
}

// toTestPush builds the test push notification for the user key.
func toTestPush(token, userKey string) pushoverMessageDTO {
	return pushoverMessageDTO{
		Token:   token,
		User:    userKey,
		Title:   testTitle,
		Message: testMessage,
	}
}

// toEmailSendResult converts the mail API acknowledgement. A missing or
// malformed queue time falls back to now.
func toEmailSendResult(dto mailAcceptedDTO, now time.Time) *ports.EmailSendResult {
	sentAt, err := time.Parse(time.RFC3339, dto.QueuedAt)
	if err != nil {
		sentAt = now
	}
	return &ports.EmailSendResult{MessageID: dto.ID, SentAt: sentAt.UTC()}
}
