package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

// ErrorResponse is an RFC 9457 Problem Details body. Reason is an extension
// member naming the access failure ("accessibleForFriendsOnly") so clients
// can tell a private list from a list that is not shared with them.
type ErrorResponse struct {
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Status   int           `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Instance string        `json:"instance,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Errors   []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail is one failed field. Location is prefixed with the part of the
// request it came from: "body.title", "path.listID", "query.sort".
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// statusByKind is checked in order; the first kind err matches wins.
var statusByKind = []struct {
	kind   error
	status int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusBadGateway},
	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

var locationPrefixes = []string{"body.", "path.", "query.", "header."}

// NewErrorResponse builds the Problem Details body for err. Errors of no
// known kind become a 500 whose detail is withheld.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status := statusOf(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = ""
	}
	resp := problem(r, status, detail)

	var aerr *access.Error
	if errors.As(err, &aerr) {
		resp.Reason = string(aerr.Reason)
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = fieldDetails(verr.Fields)
	}
	return resp
}

// WriteErrorResponse writes the Problem Details response for err.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeProblem(w, r, NewErrorResponse(r, err))
}

// WriteProblem writes a Problem Details response for a failure that is not
// a domain error, such as an unknown route or an unsupported method.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, problem(r, status, detail))
}

func problem(r *http.Request, status int, detail string) ErrorResponse {
	return ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.RequestURI,
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, resp ErrorResponse) {
	h := w.Header()
	if resp.Status == http.StatusUnauthorized {
		h.Set("WWW-Authenticate", `Session realm="wishlist"`)
	}
	h.Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "encoding problem details",
			slog.Int("status", resp.Status),
			slog.Any("error", err),
		)
	}
}

func statusOf(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// located reports whether field already names its location, either bare
// ("body") or as a prefix ("path.listID").
func located(field string) bool {
	return slices.ContainsFunc(locationPrefixes, func(p string) bool {
		return strings.HasPrefix(field, p) || field == strings.TrimSuffix(p, ".")
	})
}

// fieldDetails turns validation fields into details sorted by location.
// Fields without a location are reported as part of the body.
func fieldDetails(fields domain.Fields) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		if !located(field) {
			field = "body." + field
		}
		details = append(details, ErrorDetail{Location: field, Message: msg})
	}
	slices.SortFunc(details, func(a, b ErrorDetail) int { return strings.Compare(a.Location, b.Location) })
	return details
}
