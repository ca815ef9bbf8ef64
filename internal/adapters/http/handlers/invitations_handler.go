package handlers

import (
	"net/http"

	"github.com/edmw/wishlist-sub003/internal/adapters/http/dto"
	"github.com/edmw/wishlist-sub003/internal/app/invitations"
	"github.com/edmw/wishlist-sub003/internal/domain/invitation"
	"github.com/edmw/wishlist-sub003/internal/ports"
)

// InvitationsActor manages the invitations the acting user issued.
type InvitationsActor interface {
	RequestInvitations(spec invitations.RequestInvitationsSpecification, b invitations.RequestInvitationsBoundaries) (invitations.RequestInvitationsResult, error)
	CreateInvitation(spec invitations.CreateInvitationSpecification, b invitations.CreateInvitationBoundaries) (invitations.InvitationResult, error)
	RevokeInvitation(spec invitations.RevokeInvitationSpecification, b invitations.RevokeInvitationBoundaries) (invitations.InvitationResult, error)
}

// InvitationsHandler handles the signed-in user's invitations.
type InvitationsHandler struct {
	actor InvitationsActor
	email ports.EmailSendingProvider
}

// NewInvitationsHandler creates a new InvitationsHandler. New invitations
// are sent through email.
func NewInvitationsHandler(actor InvitationsActor, email ports.EmailSendingProvider) *InvitationsHandler {
	return &InvitationsHandler{actor: actor, email: email}
}

// RequestInvitations handles GET /api/v1/me/invitations?sort=&order=.
func (h *InvitationsHandler) RequestInvitations(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	sort, err := dto.SortFromQuery(r.URL.Query(), invitation.SortTable)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.RequestInvitations(
		invitations.RequestInvitationsSpecificationForUser(userID).SortedBy(sort),
		invitations.RequestInvitationsBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToInvitationsResponse(res))
}

// CreateInvitation handles POST /api/v1/me/invitations.
func (h *InvitationsHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	var req dto.CreateInvitationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.actor.CreateInvitation(
		invitations.CreateInvitationSpecificationForUser(userID, req.Email),
		invitations.CreateInvitationBoundariesWith(requestContext(r), h.email),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.ToInvitationResponse(res))
}

// RevokeInvitation handles DELETE /api/v1/me/invitations/{invitationID}.
// The invitation is kept and marked revoked.
func (h *InvitationsHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	userID, err := signedIn(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	invitationID, err := parseParam(r, paramInvitationID, invitation.ParseID)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	res, err := h.actor.RevokeInvitation(
		invitations.RevokeInvitationSpecificationForUser(userID, invitationID),
		invitations.RevokeInvitationBoundariesWith(requestContext(r)),
	)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ToInvitationResponse(res))
}
