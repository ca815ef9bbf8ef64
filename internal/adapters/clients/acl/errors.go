// Package acl implements the Anti-Corruption Layer for the outbound
// notification providers: a JSON mail API and a Pushover-compatible push
// API. Wire formats stay in this package; callers see ports types and
// domain errors only.
package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/domain"
)

// maxBodySize caps how much of a provider answer is read.
const maxBodySize = 1 << 20

// complaint is what a provider said about a rejected message: a summary
// and the message fields it objected to.
type complaint struct {
	summary string
	fields  domain.Fields
}

// mailProblem is the mail API's RFC 7807 error body.
type mailProblem struct {
	Detail string `json:"detail"`
	Errors []struct {
		Location string `json:"location"`
		Message  string `json:"message"`
	} `json:"errors"`
}

func (p mailProblem) complaint() complaint {
	c := complaint{summary: p.Detail}
	for _, e := range p.Errors {
		if c.fields == nil {
			c.fields = make(domain.Fields, len(p.Errors))
		}
		c.fields[strings.TrimPrefix(e.Location, "body.")] = e.Message
	}
	return c
}

// pushRejection is the push API's error body. Messages are plain strings;
// the parameter they concern appears as a top-level key set to "invalid".
type pushRejection struct {
	Status int      `json:"status"`
	Errors []string `json:"errors"`
	User   string   `json:"user"`
	Token  string   `json:"token"`
}

func (p pushRejection) complaint() complaint {
	c := complaint{summary: strings.Join(p.Errors, "; ")}
	var param string
	switch {
	case p.User != "":
		param = "user"
	case p.Token != "":
		param = "token"
	default:
		return c
	}
	c.fields = domain.Fields{param: c.summary}
	return c
}

// TranslateHTTPError turns a provider answer with an unexpected status into
// a domain error. The body is read as a mail problem for
// application/problem+json and as a push rejection for application/json;
// anything else is described by its status text. A 400 or 422 that names
// fields becomes a *domain.ValidationError.
//
// Credential failures (401, 403) and rate limiting concern this service's
// account with the provider rather than the acting user, so they are
// reported as domain.ErrUnavailable.
func TranslateHTTPError(resp *http.Response) error {
	c := readComplaint(resp)
	if c.summary == "" {
		c.summary = http.StatusText(resp.StatusCode)
	}

	code := resp.StatusCode
	switch {
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		if len(c.fields) > 0 {
			return &domain.ValidationError{Fields: c.fields}
		}
		return fmt.Errorf("%s: %w", c.summary, domain.ErrValidation)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", c.summary, domain.ErrNotFound)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("provider rejected credentials: %s: %w", c.summary, domain.ErrUnavailable)
	case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", c.summary, domain.ErrUnavailable)
	}
	return fmt.Errorf("unexpected status %d: %s", code, c.summary)
}

// readComplaint decodes the body in the format its content type announces.
// Unreadable or undeclared bodies yield an empty complaint.
func readComplaint(resp *http.Response) complaint {
	if resp.Body == nil {
		return complaint{}
	}
	mediaType := resp.Header.Get("Content-Type")
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize))

	switch {
	case strings.HasPrefix(mediaType, "application/problem+json"):
		var p mailProblem
		if dec.Decode(&p) != nil {
			return complaint{}
		}
		return p.complaint()
	case strings.HasPrefix(mediaType, "application/json"):
		var p pushRejection
		if dec.Decode(&p) != nil {
			return complaint{}
		}
		return p.complaint()
	}
	return complaint{}
}
