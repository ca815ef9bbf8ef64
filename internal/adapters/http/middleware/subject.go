package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/domain"
	"github.com/edmw/wishlist-sub003/internal/domain/user"
)

// HeaderUserID carries the authenticated user. It is set by the session
// layer in front of this service and trusted as is.
const HeaderUserID = "X-User-ID"

type subjectKey struct{}

// WithSubject returns a new context carrying the acting user's ID.
func WithSubject(ctx context.Context, id user.ID) context.Context {
	return context.WithValue(ctx, subjectKey{}, id)
}

// SubjectFromContext returns the acting user's ID, or nil for anonymous
// requests.
func SubjectFromContext(ctx context.Context) *user.ID {
	if id, ok := ctx.Value(subjectKey{}).(user.ID); ok {
		return &id
	}
	return nil
}

// Subject returns middleware that reads the acting user from the
// X-User-ID header. Requests without the header proceed anonymously; a
// malformed header is rejected with 400.
func Subject() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := user.ParseID(raw)
			if err != nil {
				dto.WriteErrorResponse(w, r, domain.NewFieldError("header."+HeaderUserID, "must be a valid UUID"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), id)))
		})
	}
}
