package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	appctx "github.com/edmw/wishlist-sub003/internal/app/context"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/access"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
	"github.com/edmw/wishlist-sub003/internal/platform/logging"
)

const (
	paramListID       = "listID"
	paramItemID       = "itemID"
	paramInvitationID = "invitationID"
)

const maxBodyBytes = 1 << 20

// parseParam reads a UUID path parameter with parse.
func parseParam[ID any](r *http.Request, param string, parse func(string) (ID, error)) (ID, error) {
	id, err := parse(chi.URLParam(r, param))
	if err != nil {
		var zero ID
		return zero, domain.NewFieldError("path."+param, "must be a valid UUID")
	}
	return id, nil
}

// requestContext starts the execution context of the request's action. The
// action inherits the request's deadline, span and logger.
func requestContext(r *http.Request) *appctx.RequestContext {
	return appctx.New(r.Context())
}

// signedIn returns the acting user or ErrAuthenticationRequired.
func signedIn(r *http.Request) (user.ID, error) {
	id := middleware.SubjectFromContext(r.Context())
	if id == nil {
		return user.ID{}, access.ErrAuthenticationRequired
	}
	return *id, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Warn("encoding response", "error", err)
	}
}

// decodeJSONBody decodes exactly one JSON value of at most maxBodyBytes
// into dst, rejecting unknown fields. On failure it answers 400 naming what
// was wrong and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, bodyError(err))
		return false
	}
	return true
}

var errTrailingData = errors.New("trailing data")

// bodyError describes a decoding failure as a validation error located in
// the body.
func bodyError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return domain.NewFieldError("body", "must not be empty")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return domain.NewFieldError("body", "is truncated JSON")
	case errors.Is(err, errTrailingData):
		return domain.NewFieldError("body", "must hold a single JSON value")
	case errors.As(err, &syntaxErr):
		return domain.NewFieldError("body", fmt.Sprintf("is malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return domain.NewFieldError(typeErr.Field, "must be of type "+typeErr.Type.String())
	case errors.As(err, &sizeErr):
		return domain.NewFieldError("body", fmt.Sprintf("must not exceed %d bytes", sizeErr.Limit))
	}
	// encoding/json has no type for unknown fields.
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return domain.NewFieldError(strings.Trim(field, `"`), "is not a known field")
	}
	return domain.NewFieldError("body", "invalid JSON")
}

type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the body into dst and validates it, answering
// 400 and returning false when either fails.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
