package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders lists the lowercase HTTP header names whose values are
// never logged. The HTTP middleware redacts them when dumping request
// headers and the log handler masks attributes with these names.
var SensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"x-api-key":           true,
	"cookie":              true,
	"set-cookie":          true,
}

// sensitiveFields are attribute names whose values are always masked: user
// contact data, invitation codes and provider credentials.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"email",
	"invitation_code",
	"pushover_key",
}

var sensitivePrefixes = []string{"secret_", "api_key", "token_"}

// sensitivePatterns catch values that reach a log under an innocent name,
// for example in an error message or a provider response.
var sensitivePatterns = []*regexp.Regexp{
	// Bearer credentials.
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),
	// JWTs; the segment minimum keeps version strings out.
	regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`),
	// Inline credentials such as the push API's form body "token=...&user=...".
	regexp.MustCompile(`(?i)\b(api[_\-]?key|apikey|token)\s*[:=]\s*[^\s&]+`),
	// Email addresses of users and invitees.
	regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
}

// newRedactAttr returns a masq ReplaceAttr that replaces sensitive values
// with [REDACTED].
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+len(sensitiveFields)+len(sensitivePrefixes)+len(sensitivePatterns))
	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}
	for _, re := range sensitivePatterns {
		opts = append(opts, masq.WithRegex(re))
	}
	return masq.New(opts...)
}
