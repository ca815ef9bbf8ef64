package config

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Invitation codes shorter than six characters are guessable.
const (
	minInvitationCodeLength = 6
	maxInvitationCodeLength = 32
)

// problems collects validation failures, each prefixed with the config key
// it concerns.
type problems []error

func (p *problems) check(ok bool, key, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Errorf("%s %s", key, fmt.Sprintf(format, args...)))
	}
}

func oneOf(v string, allowed ...string) bool { return slices.Contains(allowed, v) }

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	var p problems
	c.Server.validate(&p)
	c.Log.validate(&p)
	c.Telemetry.validate(&p)
	c.Actions.validate(&p)
	c.Clients.Pushover.validate(&p, "clients.pushover")
	c.Clients.Mail.validate(&p, "clients.mail")
	_, err := mail.ParseAddress(c.Clients.Mail.Sender)
	p.check(err == nil, "clients.mail.sender", "must be a mail address, got %q", c.Clients.Mail.Sender)
	c.Images.validate(&p)
	c.Seed.validate(&p)
	return errors.Join(p...)
}

func (s *ServerConfig) validate(p *problems) {
	p.check(s.Port >= 1 && s.Port <= 65535, "server.port", "must be between 1 and 65535, got %d", s.Port)
	p.check(s.ReadTimeout > 0, "server.read_timeout", "must be positive")
	p.check(s.WriteTimeout > 0, "server.write_timeout", "must be positive")
	p.check(s.RequestTimeout > 0, "server.request_timeout", "must be positive")
	p.check(s.HealthCheckTimeout >= 0, "server.health_check_timeout", "must not be negative")
}

func (l *LogConfig) validate(p *problems) {
	p.check(oneOf(l.Level, "debug", "info", "warn", "error"),
		"log.level", "must be one of debug, info, warn, error; got %q", l.Level)
	p.check(oneOf(l.Format, "json", "text"),
		"log.format", "must be one of json, text; got %q", l.Format)
}

func (t *TelemetryConfig) validate(p *problems) {
	if !t.Enabled {
		return
	}
	p.check(oneOf(t.Exporter, "stdout", "otlp"),
		"telemetry.exporter", "must be one of stdout, otlp; got %q", t.Exporter)
	p.check(t.Exporter != "otlp" || t.Endpoint != "",
		"telemetry.endpoint", "must not be empty when exporter is otlp")
}

func (a *ActionsConfig) validate(p *problems) {
	p.check(a.FanoutWorkers >= 1, "actions.fanout_workers", "must be >= 1, got %d", a.FanoutWorkers)
	p.check(a.InvitationCodeLength >= minInvitationCodeLength && a.InvitationCodeLength <= maxInvitationCodeLength,
		"actions.invitation_code_length", "must be between %d and %d, got %d",
		minInvitationCodeLength, maxInvitationCodeLength, a.InvitationCodeLength)
}

// validate checks one provider client; prefix is its config section.
func (cl *ClientConfig) validate(p *problems, prefix string) {
	p.check(cl.BaseURL != "", prefix+".base_url", "must not be empty")
	p.check(cl.Timeout > 0, prefix+".timeout", "must be positive")
	p.check(cl.Retry.MaxAttempts >= 1, prefix+".retry.max_attempts", "must be >= 1, got %d", cl.Retry.MaxAttempts)
	p.check(cl.Retry.Multiplier > 0, prefix+".retry.multiplier", "must be positive, got %g", cl.Retry.Multiplier)
	p.check(cl.CircuitBreaker.MaxFailures >= 1, prefix+".circuit_breaker.max_failures",
		"must be >= 1, got %d", cl.CircuitBreaker.MaxFailures)
	p.check(cl.RateLimit.RequestsPerSecond >= 0, prefix+".rate_limit.requests_per_second", "must not be negative")
	p.check(cl.RateLimit.RequestsPerSecond == 0 || cl.RateLimit.BurstSize >= 1,
		prefix+".rate_limit.burst_size", "must be >= 1 when rate limiting is enabled")
}

func (i *ImagesConfig) validate(p *problems) {
	u, err := url.Parse(i.BaseURL)
	p.check(err == nil && u.Scheme != "" && u.Host != "", "images.base_url", "must be an absolute URL, got %q", i.BaseURL)
}

// validate requires UUIDs and identifications unique without regard to case,
// matching how the user store looks them up.
func (s *SeedConfig) validate(p *problems) {
	seen := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		key := fmt.Sprintf("seed.users[%d]", i)
		_, err := uuid.Parse(u.ID)
		p.check(err == nil, key+".id", "must be a UUID, got %q", u.ID)

		ident := strings.ToLower(strings.TrimSpace(u.Identification))
		p.check(ident != "", key+".identification", "must not be empty")
		p.check(ident == "" || !seen[ident], key+".identification", "%q is not unique", u.Identification)
		seen[ident] = true
	}
}
