package acl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.NotificationSendingProvider = (*NotificationClient)(nil)
	_ ports.HealthChecker               = (*NotificationClient)(nil)
)

const pushoverMessagesPath = "/1/messages.json"

// NotificationClient is the outbound adapter for the Pushover-compatible
// push API. It implements [ports.NotificationSendingProvider] and hands
// the email channel to a [MailClient].
type NotificationClient struct {
	req    *Requester
	token  string
	mail   *MailClient
	logger *slog.Logger
}

// NewNotificationClient creates a NotificationClient that authenticates
// with the application token. mail may be nil, in which case the email
// channel fails.
func NewNotificationClient(client *httpclient.Client, token string, mail *MailClient, logger *slog.Logger) *NotificationClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationClient{
		req:    NewRequester(client, logger),
		token:  token,
		mail:   mail,
		logger: logger,
	}
}

// SendTestNotification sends a test message on every requested channel
// concurrently and returns one result per channel in request order. A
// failing channel is reported in its result; the returned error is always
// nil.
func (c *NotificationClient) SendTestNotification(ctx context.Context, recipient user.Representation, channels []ports.NotificationChannel) ([]ports.NotificationSendingResult, error) {
	results := make([]ports.NotificationSendingResult, len(channels))

	var g errgroup.Group
	for i, ch := range channels {
		g.Go(func() error {
			err := c.send(ctx, recipient, ch)
			results[i] = ports.NotificationSendingResult{Channel: ch, Success: err == nil, Err: err}
			if err != nil {
				c.logger.WarnContext(ctx, "notification channel failed",
					slog.String("operation", "SendTestNotification"),
					slog.String("channel", string(ch)),
					slog.String("user_id", recipient.ID),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (c *NotificationClient) send(ctx context.Context, recipient user.Representation, ch ports.NotificationChannel) error {
	switch ch {
	case ports.ChannelEmail:
		if c.mail == nil {
			return errors.New("email channel not configured")
		}
		return c.mail.SendTestEmail(ctx, recipient)
	case ports.ChannelPushover:
		return c.push(ctx, recipient.Settings.PushoverKey)
	default:
		return fmt.Errorf("unsupported channel %q", ch)
	}
}

// push posts a test message to the user key. The push API reports
// failures with a zero status even on 200.
func (c *NotificationClient) push(ctx context.Context, userKey string) error {
	if strings.TrimSpace(userKey) == "" {
		return errors.New("recipient has no pushover key")
	}
	if c.token == "" {
		return errors.New("pushover token not configured")
	}

	var resp pushoverResponseDTO
	if err := c.req.PostJSON(ctx, pushoverMessagesPath, http.StatusOK,
		toTestPush(c.token, userKey), &resp); err != nil {
		return err
	}
	if resp.Status != 1 {
		return fmt.Errorf("pushover request %s: status %d", resp.Request, resp.Status)
	}
	return nil
}

// Name returns the identifier used when this component is registered with a
// [ports.HealthRegistry].
func (c *NotificationClient) Name() string {
	return c.req.Name()
}

// HealthCheck reports the push API's availability based on the circuit
// breaker state. No network call is made.
func (c *NotificationClient) HealthCheck(ctx context.Context) error {
	return c.req.HealthCheck(ctx)
}
