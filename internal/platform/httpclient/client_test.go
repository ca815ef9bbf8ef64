package httpclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/platform/config"
	"github.com/edmw/wishlist-sub003/internal/platform/httpclient"
)

func testConfig(baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// provider is a fake downstream that answers with the queued statuses in
// order, then 200, and records what it received.
type provider struct {
	mu       sync.Mutex
	statuses []int
	header   http.Header
	bodies   []string
	calls    atomic.Int32
}

func newProvider(t *testing.T, statuses ...int) (*provider, *httptest.Server) {
	t.Helper()

	p := &provider{statuses: statuses}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		n := int(p.calls.Add(1))

		p.mu.Lock()
		p.bodies = append(p.bodies, string(b))
		p.header = r.Header.Clone()
		p.mu.Unlock()

		if n <= len(p.statuses) {
			w.WriteHeader(p.statuses[n-1])
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":1}`))
	}))
	t.Cleanup(srv.Close)
	return p, srv
}

// received returns the last request's headers and every body seen so far.
func (p *provider) received() (http.Header, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.header, p.bodies
}

func newClient(cfg *config.ClientConfig, name string) *httpclient.Client {
	return httpclient.New(cfg, name, nil, slog.New(slog.DiscardHandler))
}

func do(t *testing.T, ctx context.Context, c *httpclient.Client, method, url, body string) (*http.Response, error) {
	t.Helper()

	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	require.NoError(t, err)

	resp, err := c.Do(ctx, req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	p, srv := newProvider(t)
	c := newClient(testConfig(srv.URL), "pushover")

	resp, err := do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", `{"message":"hi"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":1}`, string(body))
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestDo_RetryPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		method    string
		key       string
		statuses  []int
		wantCalls int32
		wantErr   bool
	}{
		{name: "get retries 5xx", method: http.MethodGet, statuses: []int{500, 502}, wantCalls: 3},
		{name: "post retries 429", method: http.MethodPost, statuses: []int{429}, wantCalls: 2},
		{name: "post retries 503", method: http.MethodPost, statuses: []int{503, 503}, wantCalls: 3},
		{name: "post without key stops on 500", method: http.MethodPost, statuses: []int{500}, wantCalls: 1, wantErr: true},
		{name: "post with key retries 500", method: http.MethodPost, key: "invitation-1", statuses: []int{500}, wantCalls: 2},
		{name: "4xx is final", method: http.MethodGet, statuses: []int{400}, wantCalls: 1},
		{name: "exhausted", method: http.MethodGet, statuses: []int{503, 503, 503}, wantCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, srv := newProvider(t, tt.statuses...)
			c := newClient(testConfig(srv.URL), "mail")

			ctx := context.Background()
			if tt.key != "" {
				ctx = httpclient.WithIdempotencyKey(ctx, tt.key)
			}
			resp, err := do(t, ctx, c, tt.method, srv.URL+"/v1/messages", `{"to":["a@example.com"]}`)

			assert.Equal(t, tt.wantCalls, p.calls.Load())
			require.NotNil(t, resp, "a response is returned even when the call fails")
			if tt.wantErr {
				require.Error(t, err)
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "unavailable", string(body), "last response body stays readable")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDo_ReplaysBody(t *testing.T) {
	t.Parallel()

	p, srv := newProvider(t, http.StatusTooManyRequests)
	c := newClient(testConfig(srv.URL), "pushover")

	_, err := do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", "token=t&user=u")
	require.NoError(t, err)
	_, bodies := p.received()
	assert.Equal(t, []string{"token=t&user=u", "token=t&user=u"}, bodies)
}

func TestDo_HonorsRetryAfter(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls = append(calls, time.Now())
		first := len(calls) == 1
		mu.Unlock()
		if first {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Retry.InitialInterval = 5 * time.Second
	cfg.Retry.MaxInterval = 5 * time.Second
	c := newClient(cfg, "pushover")

	_, err := do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", "m")
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Less(t, calls[1].Sub(calls[0]), time.Second, "Retry-After: 0 skips the configured backoff")
}

func TestDo_PropagatesHeaders(t *testing.T) {
	t.Parallel()

	p, srv := newProvider(t)
	c := newClient(testConfig(srv.URL), "mail")

	ctx := httpclient.WithRequestID(context.Background(), "req-123")
	ctx = httpclient.WithCorrelationID(ctx, "corr-456")
	ctx = httpclient.WithIdempotencyKey(ctx, "invitation-9")

	_, err := do(t, ctx, c, http.MethodPost, srv.URL+"/v1/messages", "{}")
	require.NoError(t, err)
	header, _ := p.received()
	assert.Equal(t, "req-123", header.Get("X-Request-ID"))
	assert.Equal(t, "corr-456", header.Get("X-Correlation-ID"))
	assert.Equal(t, "invitation-9", header.Get(httpclient.HeaderIdempotencyKey))
}

func TestDo_NoHeadersWithoutContext(t *testing.T) {
	t.Parallel()

	p, srv := newProvider(t)
	c := newClient(testConfig(srv.URL), "mail")

	_, err := do(t, context.Background(), c, http.MethodGet, srv.URL+"/v1/health", "")
	require.NoError(t, err)
	header, _ := p.received()
	for _, h := range []string{"X-Request-ID", "X-Correlation-ID", httpclient.HeaderIdempotencyKey} {
		assert.Empty(t, header.Get(h), h)
	}
}

func TestDo_CanceledContext(t *testing.T) {
	t.Parallel()

	_, srv := newProvider(t, 500, 500, 500)
	c := newClient(testConfig(srv.URL), "mail")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := do(t, ctx, c, http.MethodGet, srv.URL+"/v1/messages", "")
	require.Error(t, err)
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.CircuitBreaker.MaxFailures = 1
	cfg.CircuitBreaker.Timeout = 100 * time.Millisecond
	cfg.Retry.MaxAttempts = 1
	c := newClient(cfg, "pushover")

	require.NoError(t, c.HealthCheck(context.Background()))
	assert.Equal(t, "closed", c.CircuitBreakerState())

	// A push that fails with 502 is not replayed but still trips the breaker.
	_, err := do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", "m")
	require.Error(t, err)
	assert.Equal(t, "open", c.CircuitBreakerState())
	assert.ErrorContains(t, c.HealthCheck(context.Background()), "failing")

	before := calls.Load()
	resp, err := do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", "m")
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Nil(t, resp)
	assert.Equal(t, before, calls.Load(), "open breaker must not reach the provider")

	time.Sleep(150 * time.Millisecond)
	assert.ErrorContains(t, c.HealthCheck(context.Background()), "degraded")

	failing.Store(false)
	resp, err = do(t, context.Background(), c, http.MethodPost, srv.URL+"/1/messages.json", "m")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "closed", c.CircuitBreakerState())
}

func TestClient_Identity(t *testing.T) {
	t.Parallel()

	c := newClient(testConfig("https://api.pushover.net"), "pushover")
	assert.Equal(t, "pushover", c.Name())
	assert.Equal(t, "https://api.pushover.net", c.BaseURL())
}

func TestContextValues(t *testing.T) {
	t.Parallel()

	ctx := httpclient.WithRequestID(context.Background(), "req-1")
	ctx = httpclient.WithCorrelationID(ctx, "corr-1")
	ctx = httpclient.WithIdempotencyKey(ctx, "invitation-1")

	assert.Equal(t, "req-1", httpclient.RequestIDFromContext(ctx))
	assert.Equal(t, "corr-1", httpclient.CorrelationIDFromContext(ctx))
	assert.Equal(t, "invitation-1", httpclient.IdempotencyKeyFromContext(ctx))
	assert.Empty(t, httpclient.RequestIDFromContext(context.Background()))
}
