package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/internal/service/auth"
	"github.com/workorg/server/internal/service/invitation"
	"github.com/workorg/server/internal/service/project"
	"github.com/workorg/server/internal/service/task"
	"github.com/workorg/server/internal/service/video"
	"github.com/workorg/server/pkg/validator"
)

var errInvalidBody = errors.New("invalid request body")

func (c controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("failed to write response", "error", err)
	}
}

func (c controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"message": message})
}

func (c controller) writeValidationErrors(w http.ResponseWriter, errs []validator.ValidationError) {
	c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
}

// decodeAndValidate decodes the JSON body into v and runs struct
// validation, writing the error response itself on failure.
func (c controller) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		c.writeError(w, http.StatusBadRequest, errInvalidBody.Error())
		return false
	}

	if errs, ok := c.validate.Validate(v); !ok {
		c.writeValidationErrors(w, errs)
		return false
	}

	return true
}

func extractBearerToken(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header")
	}

	return parts[1], nil
}

// handleServiceError maps service-layer sentinels to HTTP statuses.
func (c controller) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProjectNotFound),
		errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrInvitationNotFound),
		errors.Is(err, repository.ErrPlaybackNotFound):
		c.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, project.ErrPermissionDenied),
		errors.Is(err, task.ErrPermissionDenied),
		errors.Is(err, invitation.ErrPermissionDenied),
		errors.Is(err, video.ErrPermissionDenied):
		c.writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, video.ErrInvalidReference):
		c.writeError(w, http.StatusBadRequest, "Invalid YouTube URL. Please provide a valid YouTube video link.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.writeError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrAlreadyVerified),
		errors.Is(err, project.ErrAlreadyMember),
		errors.Is(err, project.ErrInvitationPending),
		errors.Is(err, invitation.ErrAlreadyAccepted),
		errors.Is(err, invitation.ErrExpired):
		c.writeError(w, http.StatusBadRequest, err.Error())
	default:
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
		c.writeError(w, http.StatusInternalServerError, "Server error")
	}
}
