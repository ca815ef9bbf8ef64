package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edmw/wishlist-sub003/internal/platform/config"
)

// repoConfigs is the repository's configs directory seen from this package.
const repoConfigs = "../../../configs"

func loadFromRepo(t *testing.T, profile string) *config.Config {
	t.Helper()

	cfg, err := config.Load(profile, config.WithConfigDir(repoConfigs))
	require.NoError(t, err)
	return cfg
}

func TestLoad_Profiles(t *testing.T) {
	t.Parallel()

	local := loadFromRepo(t, "local")
	assert.Equal(t, "debug", local.Log.Level)
	assert.Equal(t, "text", local.Log.Format)
	assert.False(t, local.Telemetry.Enabled)
	assert.Equal(t, 4, local.Actions.FanoutWorkers, "local.yaml overrides base")
	assert.Equal(t, 8, local.Actions.InvitationCodeLength, "inherited from base")
	assert.Equal(t, "0.0.0.0", local.Server.Host)
	assert.Equal(t, 2*time.Second, local.Server.HealthCheckTimeout)
	assert.Equal(t, 3, local.Clients.Pushover.Retry.MaxAttempts)
	assert.Equal(t, 5, local.Clients.Mail.CircuitBreaker.MaxFailures)
	require.Len(t, local.Seed.Users, 1)
	assert.Equal(t, "demo", local.Seed.Users[0].Identification)
	assert.True(t, local.Seed.Users[0].Confidant)

	prod := loadFromRepo(t, "prod")
	assert.Equal(t, "info", prod.Log.Level)
	assert.Equal(t, "json", prod.Log.Format)
	assert.True(t, prod.Telemetry.Enabled)
	assert.Equal(t, "otlp", prod.Telemetry.Exporter)
	assert.NotEmpty(t, prod.Telemetry.Endpoint)
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  level: warn\n")
	writeFile(t, filepath.Join(dir, "test.yaml"), "server:\n  port: 9191\n")

	cfg, err := config.Load("test", config.WithConfigDir(dir))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level, "from base")
	assert.Equal(t, 9191, cfg.Server.Port, "from profile")
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Server.HealthCheckTimeout)
	assert.Equal(t, 10*time.Second, cfg.Clients.Pushover.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Clients.Mail.Retry.InitialInterval)
	assert.InDelta(t, 2.0, cfg.Clients.Mail.Retry.Multiplier, 0)
	assert.Equal(t, "https://api.pushover.net", cfg.Clients.Pushover.BaseURL)
	assert.Equal(t, "wishlist@localhost", cfg.Clients.Mail.Sender)
	assert.Equal(t, 8, cfg.Actions.FanoutWorkers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		env   string
		value string
		got   func(*config.Config) any
		want  any
	}{
		{"APP_SERVER_PORT", "9090", func(c *config.Config) any { return c.Server.Port }, 9090},
		{"APP_SERVER_READ_TIMEOUT", "15s", func(c *config.Config) any { return c.Server.ReadTimeout }, 15 * time.Second},
		{"APP_CLIENTS_MAIL_RETRY_MAX_ATTEMPTS", "7", func(c *config.Config) any { return c.Clients.Mail.Retry.MaxAttempts }, 7},
		{"APP_CLIENTS_PUSHOVER_TOKEN", "app-token", func(c *config.Config) any { return c.Clients.Pushover.Token }, "app-token"},
		{"APP_ACTIONS_INVITATION_CODE_LENGTH", "12", func(c *config.Config) any { return c.Actions.InvitationCodeLength }, 12},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)
			assert.Equal(t, tt.want, tt.got(loadFromRepo(t, "local")))
		})
	}
}

func TestLoad_SecretFile(t *testing.T) {
	secret := filepath.Join(t.TempDir(), "pushover")
	writeFile(t, secret, "file-token\n")
	t.Setenv("APP_CLIENTS_PUSHOVER_TOKEN", "env-token")
	t.Setenv("APP_CLIENTS_PUSHOVER_TOKEN_FILE", secret)

	cfg := loadFromRepo(t, "local")
	assert.Equal(t, "file-token", cfg.Clients.Pushover.Token, "file wins over env, trailing newline dropped")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		env     map[string]string
		wantErr string
	}{
		{name: "missing profile", profile: "nonexistent", wantErr: "nonexistent.yaml"},
		{name: "empty profile", profile: " ", wantErr: "must not be empty"},
		{name: "path traversal", profile: "../secrets", wantErr: "path separators"},
		{name: "dotted traversal", profile: "..", wantErr: "path traversal"},
		{
			name:    "missing secret file",
			profile: "local",
			env:     map[string]string{"APP_CLIENTS_PUSHOVER_TOKEN_FILE": "/nonexistent/pushover"},
			wantErr: "APP_CLIENTS_PUSHOVER_TOKEN_FILE",
		},
		{
			name:    "secret file for unknown key",
			profile: "local",
			env:     map[string]string{"APP_CLIENTS_SLACK_TOKEN_FILE": "/dev/null"},
			wantErr: "does not name a known config key",
		},
		{
			name:    "invalid value",
			profile: "local",
			env:     map[string]string{"APP_LOG_LEVEL": "verbose"},
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(tt.profile, config.WithConfigDir(repoConfigs))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "port", mutate: func(c *config.Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "negative health timeout", mutate: func(c *config.Config) { c.Server.HealthCheckTimeout = -time.Second }, wantErr: "server.health_check_timeout"},
		{name: "log level", mutate: func(c *config.Config) { c.Log.Level = "verbose" }, wantErr: "log.level"},
		{name: "log format", mutate: func(c *config.Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
		{name: "disabled telemetry is not checked", mutate: func(c *config.Config) { c.Telemetry.Exporter = "zipkin" }},
		{
			name: "otlp without endpoint",
			mutate: func(c *config.Config) {
				c.Telemetry = config.TelemetryConfig{Enabled: true, Exporter: "otlp"}
			},
			wantErr: "telemetry.endpoint",
		},
		{name: "zero workers", mutate: func(c *config.Config) { c.Actions.FanoutWorkers = 0 }, wantErr: "actions.fanout_workers"},
		{name: "short code", mutate: func(c *config.Config) { c.Actions.InvitationCodeLength = 4 }, wantErr: "invitation_code_length"},
		{name: "long code", mutate: func(c *config.Config) { c.Actions.InvitationCodeLength = 33 }, wantErr: "invitation_code_length"},
		{name: "bad sender", mutate: func(c *config.Config) { c.Clients.Mail.Sender = "nobody" }, wantErr: "clients.mail.sender"},
		{
			name:    "rate limit without burst",
			mutate:  func(c *config.Config) { c.Clients.Pushover.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1} },
			wantErr: "clients.pushover.rate_limit.burst_size",
		},
		{name: "missing base url", mutate: func(c *config.Config) { c.Clients.Mail.BaseURL = "" }, wantErr: "clients.mail.base_url"},
		{name: "zero retry attempts", mutate: func(c *config.Config) { c.Clients.Mail.Retry.MaxAttempts = 0 }, wantErr: "clients.mail.retry.max_attempts"},
		{name: "relative images url", mutate: func(c *config.Config) { c.Images.BaseURL = "/images" }, wantErr: "images.base_url"},
		{
			name: "seed user without uuid",
			mutate: func(c *config.Config) {
				c.Seed.Users = []config.SeedUser{{ID: "ada", Identification: "ada"}}
			},
			wantErr: "seed.users[0].id",
		},
		{
			name: "duplicate seed identification",
			mutate: func(c *config.Config) {
				c.Seed.Users = []config.SeedUser{
					{ID: "0b6a0f8e-6a7c-4c7e-9a55-3f1f2d1c0a01", Identification: "ada"},
					{ID: "0b6a0f8e-6a7c-4c7e-9a55-3f1f2d1c0a02", Identification: "ADA"},
				}
			},
			wantErr: "seed.users[1].identification",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.Port = -1
	cfg.Log.Level = "loud"
	cfg.Clients.Pushover.Timeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"server.port", "log.level", "clients.pushover.timeout"} {
		assert.Contains(t, err.Error(), key)
	}
}

func validConfig() *config.Config {
	client := func(baseURL string) config.ClientConfig {
		return config.ClientConfig{
			BaseURL: baseURL,
			Timeout: 10 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2,
			},
			CircuitBreaker: config.CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 1},
		}
	}

	return &config.Config{
		Server: config.ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        5 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        120 * time.Second,
			RequestTimeout:     30 * time.Second,
			HealthCheckTimeout: 2 * time.Second,
		},
		Log:       config.LogConfig{Level: "info", Format: "json"},
		Telemetry: config.TelemetryConfig{Exporter: "stdout"},
		Actions:   config.ActionsConfig{FanoutWorkers: 8, InvitationCodeLength: 8},
		Clients: config.ClientsConfig{
			Pushover: config.PushoverConfig{ClientConfig: client("https://api.pushover.net")},
			Mail:     config.MailConfig{ClientConfig: client("http://localhost:8025"), Sender: "wishlist@localhost"},
		},
		Images: config.ImagesConfig{BaseURL: "http://localhost:8080"},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
