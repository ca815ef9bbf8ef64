package acl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.EmailSendingProvider = (*MailClient)(nil)
	_ ports.HealthChecker        = (*MailClient)(nil)
)

const mailMessagesPath = "/v1/messages"

// MailClient is the outbound adapter for the JSON mail API. It implements
// [ports.EmailSendingProvider] and sends the email channel of
// notifications for [NotificationClient].
//
// Invitation mails carry an idempotency key so the underlying
// [httpclient.Client] may replay them after transport errors; test mails are
// sent at most once unless the API rejects them with 429 or 503.
type MailClient struct {
	req    *Requester
	sender string
	now    func() time.Time
}

// NewMailClient creates a MailClient that sends from sender through the
// given [httpclient.Client], whose BaseURL points to the mail API root.
func NewMailClient(client *httpclient.Client, sender string, logger *slog.Logger) *MailClient {
	return &MailClient{
		req:    NewRequester(client, logger),
		sender: sender,
		now:    time.Now,
	}
}

// SendInvitation emails the invitation code to the invitation's address.
// The mail API acknowledges with 202 Accepted once the message is queued.
func (c *MailClient) SendInvitation(ctx context.Context, inv invitation.Representation, issuer user.PublicRepresentation) (*ports.EmailSendResult, error) {
	if strings.TrimSpace(inv.Email) == "" {
		return nil, domain.NewFieldError("email", domain.MsgRequired)
	}

	// One key per invitation lets a retried send be deduplicated downstream.
	ctx = httpclient.WithIdempotencyKey(ctx, "invitation-"+inv.ID)

	var accepted mailAcceptedDTO
	if err := c.req.PostJSON(ctx, mailMessagesPath, http.StatusAccepted,
		toInvitationMail(c.sender, inv, issuer), &accepted); err != nil {
		return nil, err
	}
	return toEmailSendResult(accepted, c.now()), nil
}

// SendTestEmail emails a test notification to recipient.
func (c *MailClient) SendTestEmail(ctx context.Context, recipient user.Representation) error {
	if strings.TrimSpace(recipient.Email) == "" {
		return errors.New("recipient has no email address")
	}
	return c.req.PostJSON(ctx, mailMessagesPath, http.StatusAccepted,
		toTestMail(c.sender, recipient), &mailAcceptedDTO{})
}

// Name returns the identifier used when this component is registered with a
// [ports.HealthRegistry]. It matches the service name of the underlying
// [httpclient.Client].
func (c *MailClient) Name() string {
	return c.req.Name()
}

// HealthCheck reports the mail API's availability based on the circuit
// breaker state. No network call is made.
func (c *MailClient) HealthCheck(ctx context.Context) error {
	return c.req.HealthCheck(ctx)
}
