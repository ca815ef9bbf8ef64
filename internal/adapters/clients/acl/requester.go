package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
)

// Requester posts JSON messages to one provider through its resilient
// [httpclient.Client]. Answers other than the expected status become domain
// errors via [TranslateHTTPError]; wire formats never leave this package.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester returns a Requester for client. A nil logger uses
// slog.Default.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Requester{client: client, logger: logger.With(slog.String("provider", client.Name()))}
}

// PostJSON posts in to path and, when the provider answers with want,
// decodes the body into out. out may be nil.
//
// The client may hand back a response together with an error once retries
// are exhausted on a retryable status; that response is translated like
// any other unexpected answer.
func (r *Requester) PostJSON(ctx context.Context, path string, want int, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s message: %w", r.client.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.client.BaseURL()+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", r.client.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(ctx, req)
	if resp != nil {
		defer r.release(ctx, resp)
	}

	switch {
	case resp != nil && resp.StatusCode != want:
		r.logger.WarnContext(ctx, "provider rejected message",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", want),
		)
		return TranslateHTTPError(resp)
	case err != nil:
		r.logger.ErrorContext(ctx, "provider unreachable",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return fmt.Errorf("posting to %s %s: %w", r.client.Name(), path, err)
	case out == nil:
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("decoding %s answer: %w", r.client.Name(), err)
	}
	return nil
}

// Name is the provider name of the underlying client.
func (r *Requester) Name() string {
	return r.client.Name()
}

// HealthCheck reports the client's circuit breaker; it makes no request.
func (r *Requester) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}

// release drains and closes the body so the connection can be reused.
func (r *Requester) release(ctx context.Context, resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	if err := resp.Body.Close(); err != nil {
		r.logger.DebugContext(ctx, "closing response body", slog.Any("error", err))
	}
}
