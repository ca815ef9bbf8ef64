package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edmw/wishlist-sub003/internal/platform/config"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

// HeaderIdempotencyKey marks a POST as safe to send more than once. The mail
// API deduplicates on it, so invitation mails carry one and may be replayed
// after transport errors.
const HeaderIdempotencyKey = "Idempotency-Key"

// jitterFraction spreads each delay by up to ±25%.
const jitterFraction = 0.25

// replayable reports whether req may be sent again after a failure the
// downstream could already have acted on. Messages posted to the push and
// mail APIs are delivered on receipt, so a POST is only replayable when it
// carries an idempotency key.
func replayable(req *http.Request) bool {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return req.Header.Get(HeaderIdempotencyKey) != ""
}

// send runs the attempt loop. The final response is written to resp rather
// than returned so the bodyclose linter does not flag callers; the caller
// closes resp.Body. A 429 or 5xx on the last attempt yields both a response
// and an error so the circuit breaker counts the failure.
func (c *Client) send(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retry.MaxAttempts < 1 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retry.MaxAttempts)
	}

	payload, err := snapshotBody(req)
	if err != nil {
		return err
	}
	replay := replayable(req)

	for attempt := 1; ; attempt++ {
		rewindBody(req, payload)
		last := attempt == c.retry.MaxAttempts

		r, err := c.hc.Do(req)
		if err != nil {
			if last || !replay || !retryableError(err) {
				return err
			}
			if err := c.pause(ctx, req, attempt, backoff(attempt, c.retry), err); err != nil {
				return err
			}
			continue
		}

		if !failedStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		failure := fmt.Errorf("%s answered %d", c.serviceName, r.StatusCode)
		if last || !(replay || rejectedUnprocessed(r.StatusCode)) {
			*resp = r
			return failure
		}

		delay := retryDelay(r.Header.Get("Retry-After"), attempt, c.retry, time.Now())
		discardBody(r)
		if err := c.pause(ctx, req, attempt, delay, failure); err != nil {
			return err
		}
	}
}

// snapshotBody drains the request body so every attempt can resend it.
func snapshotBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func rewindBody(req *http.Request, payload []byte) {
	if payload == nil {
		return
	}
	req.Body = io.NopCloser(bytes.NewReader(payload))
	req.ContentLength = int64(len(payload))
}

// discardBody drains and closes a response that will not be handed to the
// caller so the connection can be reused.
func discardBody(r *http.Response) {
	_, _ = io.Copy(io.Discard, r.Body)
	_ = r.Body.Close()
}

// pause logs the upcoming attempt and sleeps for delay, returning early with
// the context error on cancellation.
func (c *Client) pause(ctx context.Context, req *http.Request, attempt int, delay time.Duration, cause error) error {
	logging.FromContext(ctx).WarnContext(ctx, "retrying outbound request",
		slog.String("peer_service", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("next_attempt", attempt+1),
		slog.Int("max_attempts", c.retry.MaxAttempts),
		slog.Duration("delay", delay),
		slog.Any("error", cause),
	)

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retryDelay honors a Retry-After header, given in seconds or as an HTTP
// date, capped at the configured maximum. Without one it falls back to
// exponential backoff.
func retryDelay(header string, attempt int, cfg config.RetryConfig, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return backoff(attempt, cfg)
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, cfg.MaxInterval)
	}
	if at, err := http.ParseTime(header); err == nil {
		return min(max(at.Sub(now), 0), cfg.MaxInterval)
	}
	return backoff(attempt, cfg)
}

// backoff returns the jittered delay after the given number of failed
// attempts (1 for the first retry).
func backoff(attempt int, cfg config.RetryConfig) time.Duration {
	base := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt-1))
	base = min(base, float64(cfg.MaxInterval))

	spread := base * jitterFraction * (2*rand.Float64() - 1)
	return time.Duration(max(base+spread, 0))
}

// retryableError reports whether a transport error is worth another attempt.
// Cancellation and deadline expiry are final.
func retryableError(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// failedStatus reports whether the downstream answered with a failure the
// circuit breaker should count.
func failedStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// rejectedUnprocessed reports whether the status guarantees the message was
// not delivered, which makes even a non-replayable request safe to resend.
func rejectedUnprocessed(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
