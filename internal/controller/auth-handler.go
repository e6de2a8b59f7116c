package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workorg/server/internal/service/auth"
)

type registerInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	InvitationToken string `json:"invitationToken"`
}

func (c controller) register(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := c.authService.Register(r.Context(), &auth.RegisterParams{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		InvitationToken: input.InvitationToken,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, resp)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c controller) login(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := c.authService.Login(r.Context(), &auth.LoginParams{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c controller) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := c.authService.VerifyEmail(r.Context(), token); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified successfully"})
}

type resendVerificationInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (c controller) resendVerification(w http.ResponseWriter, r *http.Request) {
	var input resendVerificationInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	if err := c.authService.ResendVerification(r.Context(), input.Email); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "If the account exists, a verification email has been sent"})
}

func (c controller) logout(w http.ResponseWriter, r *http.Request) {
	accessToken, err := extractBearerToken(r)
	if err != nil {
		c.writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	if err := c.authService.Logout(r.Context(), accessToken); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (c controller) me(w http.ResponseWriter, r *http.Request) {
	user, err := c.authService.GetUser(r.Context(), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, user)
}
