package acl

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/config"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// newTestClient creates an httpclient.Client pointing at the given test server
// with circuit breaker and retry configured for fast test execution.
func newTestClient(t *testing.T, name, baseURL string) *httpclient.Client {
	t.Helper()

	cfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	return httpclient.New(cfg, name, nil, slog.New(slog.DiscardHandler))
}

// writeJSON encodes v as JSON to the response writer, failing the test on error.
func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func decode[T any](t *testing.T, r *http.Request) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Errorf("failed to decode request: %v", err)
	}
	return v
}

var testInvitation = invitation.Representation{
	ID:    "0b7c5a8e-5d0e-4bd3-a3d8-1f1c5f0d2b6e",
	Code:  "K7M2QX9P",
	Email: "friend@example.com",
}

// --- MailClient ---

func TestMailClient_SendInvitation(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("request = %s %s, want POST /v1/messages", r.Method, r.URL.Path)
		}
		if got, want := r.Header.Get(httpclient.HeaderIdempotencyKey), "invitation-"+testInvitation.ID; got != want {
			t.Errorf("Idempotency-Key = %q, want %q", got, want)
		}
		msg := decode[mailMessageDTO](t, r)
		if msg.From != "wishlist@example.com" {
			t.Errorf("From = %q", msg.From)
		}
		if len(msg.To) != 1 || msg.To[0] != "friend@example.com" {
			t.Errorf("To = %v", msg.To)
		}
		if !strings.Contains(msg.Subject, "Ada") {
			t.Errorf("Subject = %q, want issuer name", msg.Subject)
		}
		if !strings.Contains(msg.Text, "K7M2QX9P") {
			t.Errorf("Text = %q, want invitation code", msg.Text)
		}
		writeJSON(t, w, http.StatusAccepted, mailAcceptedDTO{ID: "msg-1", QueuedAt: "2026-03-01T12:00:00Z"})
	}))
	defer ts.Close()

	c := NewMailClient(newTestClient(t, "mail", ts.URL), "wishlist@example.com", nil)
	res, err := c.SendInvitation(context.Background(), testInvitation, user.PublicRepresentation{DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}
	if res.MessageID != "msg-1" {
		t.Errorf("MessageID = %q, want %q", res.MessageID, "msg-1")
	}
	if want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC); !res.SentAt.Equal(want) {
		t.Errorf("SentAt = %v, want %v", res.SentAt, want)
	}
}

func TestMailClient_SendInvitation_QueueTimeFallback(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusAccepted, mailAcceptedDTO{ID: "msg-2"})
	}))
	defer ts.Close()

	now := time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)
	c := NewMailClient(newTestClient(t, "mail", ts.URL), "wishlist@example.com", nil)
	c.now = func() time.Time { return now }

	res, err := c.SendInvitation(context.Background(), testInvitation, user.PublicRepresentation{})
	if err != nil {
		t.Fatalf("SendInvitation() error = %v", err)
	}
	if !res.SentAt.Equal(now) {
		t.Errorf("SentAt = %v, want %v", res.SentAt, now)
	}
}

func TestMailClient_SendInvitation_Rejected(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"invalid","errors":[{"location":"body.to","message":"domain does not accept mail"}]}`))
	}))
	defer ts.Close()

	c := NewMailClient(newTestClient(t, "mail", ts.URL), "wishlist@example.com", nil)
	_, err := c.SendInvitation(context.Background(), testInvitation, user.PublicRepresentation{})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *domain.ValidationError", err)
	}
	if verr.Fields["to"] != "domain does not accept mail" {
		t.Errorf("Fields = %v", verr.Fields)
	}
}

func TestMailClient_SendInvitation_NoAddress(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer ts.Close()

	c := NewMailClient(newTestClient(t, "mail", ts.URL), "wishlist@example.com", nil)
	_, err := c.SendInvitation(context.Background(), invitation.Representation{Code: "K7M2QX9P"}, user.PublicRepresentation{})

	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times, want 0", calls.Load())
	}
}

func TestMailClient_Health(t *testing.T) {
	t.Parallel()

	c := NewMailClient(newTestClient(t, "mail", "http://127.0.0.1:0"), "wishlist@example.com", nil)
	if c.Name() != "mail" {
		t.Errorf("Name() = %q, want %q", c.Name(), "mail")
	}
	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil for a closed breaker", err)
	}
}

// --- NotificationClient ---

func TestNotificationClient_SendTestNotification(t *testing.T) {
	t.Parallel()

	push := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/1/messages.json" {
			t.Errorf("request = %s %s, want POST /1/messages.json", r.Method, r.URL.Path)
		}
		msg := decode[pushoverMessageDTO](t, r)
		if msg.Token != "app-token" || msg.User != "user-key" {
			t.Errorf("token/user = %q/%q", msg.Token, msg.User)
		}
		writeJSON(t, w, http.StatusOK, pushoverResponseDTO{Status: 1, Request: "req-1"})
	}))
	defer push.Close()

	mail := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		msg := decode[mailMessageDTO](t, r)
		if len(msg.To) != 1 || msg.To[0] != "ada@example.com" {
			t.Errorf("To = %v", msg.To)
		}
		writeJSON(t, w, http.StatusAccepted, mailAcceptedDTO{ID: "msg-3"})
	}))
	defer mail.Close()

	c := NewNotificationClient(
		newTestClient(t, "pushover", push.URL),
		"app-token",
		NewMailClient(newTestClient(t, "mail", mail.URL), "wishlist@example.com", nil),
		nil,
	)
	recipient := user.Representation{
		ID:       "u-1",
		Email:    "ada@example.com",
		Settings: user.SettingsRepresentation{PushoverKey: "user-key"},
	}

	results, err := c.SendTestNotification(context.Background(), recipient,
		[]ports.NotificationChannel{ports.ChannelPushover, ports.ChannelEmail})
	if err != nil {
		t.Fatalf("SendTestNotification() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, want := range []ports.NotificationChannel{ports.ChannelPushover, ports.ChannelEmail} {
		if results[i].Channel != want || !results[i].Success || results[i].Err != nil {
			t.Errorf("results[%d] = %+v, want success on %s", i, results[i], want)
		}
	}
}

func TestNotificationClient_ChannelFailures(t *testing.T) {
	t.Parallel()

	push := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, pushRejection{
			User:   "invalid",
			Errors: []string{"user identifier is invalid"},
		})
	}))
	defer push.Close()

	c := NewNotificationClient(newTestClient(t, "pushover", push.URL), "app-token", nil, nil)
	recipient := user.Representation{
		Email:    "ada@example.com",
		Settings: user.SettingsRepresentation{PushoverKey: "bad-key"},
	}

	results, err := c.SendTestNotification(context.Background(), recipient,
		[]ports.NotificationChannel{ports.ChannelPushover, ports.ChannelEmail, "sms"})
	if err != nil {
		t.Fatalf("SendTestNotification() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if !errors.Is(results[0].Err, domain.ErrValidation) {
		t.Errorf("pushover error = %v, want ErrValidation", results[0].Err)
	}
	for i, r := range results {
		if r.Success || r.Err == nil {
			t.Errorf("results[%d] = %+v, want failure", i, r)
		}
	}
}

func TestNotificationClient_PushStatusZero(t *testing.T) {
	t.Parallel()

	push := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, pushoverResponseDTO{Status: 0, Request: "req-9"})
	}))
	defer push.Close()

	c := NewNotificationClient(newTestClient(t, "pushover", push.URL), "app-token", nil, nil)
	results, _ := c.SendTestNotification(context.Background(),
		user.Representation{Settings: user.SettingsRepresentation{PushoverKey: "key"}},
		[]ports.NotificationChannel{ports.ChannelPushover})

	if results[0].Success || results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "req-9") {
		t.Errorf("result = %+v, want failure naming the request", results[0])
	}
}
