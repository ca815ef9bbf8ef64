// Package config loads the wishlist service configuration. See Load for the
// layering of defaults, YAML profiles, environment variables and secret
// files.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Actions   ActionsConfig   `koanf:"actions"`
	Clients   ClientsConfig   `koanf:"clients"`
	Images    ImagesConfig    `koanf:"images"`
	Seed      SeedConfig      `koanf:"seed"`
}

// ServerConfig holds HTTP server settings. RequestTimeout bounds a single
// action; HealthCheckTimeout bounds each provider check behind the readiness
// endpoint.
type ServerConfig struct {
	Host               string        `koanf:"host"`
	Port               int           `koanf:"port"`
	ReadTimeout        time.Duration `koanf:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	HealthCheckTimeout time.Duration `koanf:"health_check_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ActionsConfig tunes the application actors.
type ActionsConfig struct {
	// FanoutWorkers bounds the concurrent per-entity lookups of a single
	// action (item counts per list, item resolution per favorite).
	FanoutWorkers        int `koanf:"fanout_workers"`
	InvitationCodeLength int `koanf:"invitation_code_length"`
}

// ImagesConfig configures the item image store. BaseURL prefixes the URLs
// stored images are served from.
type ImagesConfig struct {
	BaseURL string `koanf:"base_url"`
}

// SeedConfig lists users created at startup. Accounts are managed by the
// session layer in front of the service; seeding makes them known to the
// in-memory store.
type SeedConfig struct {
	Users []SeedUser `koanf:"users"`
}

// SeedUser is a user created at startup under a fixed ID.
type SeedUser struct {
	ID             string `koanf:"id"`
	Identification string `koanf:"identification"`
	FullName       string `koanf:"full_name"`
	Email          string `koanf:"email"`
	Confidant      bool   `koanf:"confidant"`
}

// ClientsConfig holds the outbound provider clients.
type ClientsConfig struct {
	Pushover PushoverConfig `koanf:"pushover"`
	Mail     MailConfig     `koanf:"mail"`
}

// PushoverConfig configures the push notification provider.
type PushoverConfig struct {
	ClientConfig `koanf:",squash"`

	Token string `koanf:"token"`
}

// MailConfig configures the mail delivery provider.
type MailConfig struct {
	ClientConfig `koanf:",squash"`

	Sender string `koanf:"sender"`
}

// ClientConfig holds downstream HTTP client settings.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
