package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) getInvitationByToken(w http.ResponseWriter, r *http.Request) {
	inv, err := c.invitationService.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, inv)
}

func (c controller) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	resp, err := c.invitationService.Accept(r.Context(), chi.URLParam(r, "token"), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c controller) resendInvitation(w http.ResponseWriter, r *http.Request) {
	if err := c.invitationService.Resend(r.Context(), chi.URLParam(r, "invitationID"), c.getUserIDFromCtx(r.Context())); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Invitation resent"})
}

func (c controller) listProjectInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := c.invitationService.ListByProject(r.Context(), chi.URLParam(r, "projectID"), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, invitations)
}
