package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/adapters/http/middleware"
	"github.com/edmw/wishlist-sub003/internal/app/welcome"
	"github.com/edmw/wishlist-sub003/internal/domain/list"
)

// WelcomeActor serves the landing page.
type WelcomeActor interface {
	PresentPublicly(spec welcome.PresentPubliclySpecification, b welcome.PresentPubliclyBoundaries) (welcome.PresentPubliclyResult, error)
	RequestWelcome(spec welcome.RequestWelcomeSpecification, b welcome.RequestWelcomeBoundaries) (welcome.RequestWelcomeResult, error)
}

// WelcomeHandler handles the landing page.
type WelcomeHandler struct {
	actor WelcomeActor
}

// NewWelcomeHandler creates a new WelcomeHandler.
func NewWelcomeHandler(actor WelcomeActor) *WelcomeHandler {
	return &WelcomeHandler{actor: actor}
}

// Welcome handles GET /api/v1/welcome. Anonymous visitors get the public
// presentation; signed-in users get their lists, ordered by the sort and
// order query parameters, and their favorites.
func (h *WelcomeHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	rc := requestContext(r)

	subject := middleware.SubjectFromContext(r.Context())
	if subject == nil {
		res, err := h.actor.PresentPublicly(
			welcome.PresentPubliclySpecificationForUser(nil),
			welcome.PresentPubliclyBoundariesWith(rc),
		)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, dto.ToPublicWelcomeResponse(res))
		return
	}

	sort, err := dto.SortFromQuery(r.URL.Query(), list.SortTable)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	res, err := h.actor.RequestWelcome(
		welcome.RequestWelcomeSpecificationForUser(*subject).WithListsSorting(sort),
		welcome.RequestWelcomeBoundariesWith(rc),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ToWelcomeResponse(res))
}
