package invitation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/pkg/randstr"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyAccepted  = errors.New("invitation already accepted")
	ErrExpired          = errors.New("invitation has expired")
)

const (
	invitationTokenBytes = 32
	invitationTTL        = 7 * 24 * time.Hour
)

type iInvitationRepo interface {
	GetInvitationByID(context.Context, string) (repository.Invitation, error)
	GetInvitationByToken(context.Context, string) (repository.Invitation, error)
	ListInvitationsByProject(context.Context, string) ([]repository.Invitation, error)
	SaveInvitation(context.Context, *repository.Invitation) error
}

type iProjectRepo interface {
	GetProject(context.Context, string) (repository.Project, error)
	AddProjectMember(ctx context.Context, projectID, userID string) error
}

type iProjectAccess interface {
	HasAccess(ctx context.Context, projectID, userID string) (bool, error)
}

type iMailService interface {
	SendProjectInvitation(ctx context.Context, to, projectName, inviterName, token string) error
}

type service struct {
	invitations iInvitationRepo
	projects    iProjectRepo
	access      iProjectAccess
	mail        iMailService
	logger      *slog.Logger
}

func NewService(invitations iInvitationRepo, projects iProjectRepo, access iProjectAccess, mail iMailService, logger *slog.Logger) *service {
	return &service{
		invitations: invitations,
		projects:    projects,
		access:      access,
		mail:        mail,
		logger:      logger,
	}
}

// GetByToken is the public lookup behind the invite landing page. An
// expired invitation is marked as such on read.
func (s service) GetByToken(ctx context.Context, token string) (repository.Invitation, error) {
	invitation, err := s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		return repository.Invitation{}, err
	}

	if invitation.Status == repository.InvitationStatusAccepted {
		return repository.Invitation{}, ErrAlreadyAccepted
	}

	if invitation.ExpiresAt.Before(time.Now()) {
		invitation.Status = repository.InvitationStatusExpired
		if err := s.invitations.SaveInvitation(ctx, &invitation); err != nil {
			s.logger.WarnContext(ctx, "failed to mark invitation expired", "error", err)
		}

		return repository.Invitation{}, ErrExpired
	}

	return invitation, nil
}

type AcceptResponse struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
}

func (s service) Accept(ctx context.Context, token, userID string) (AcceptResponse, error) {
	invitation, err := s.GetByToken(ctx, token)
	if err != nil {
		return AcceptResponse{}, err
	}

	project, err := s.projects.GetProject(ctx, invitation.ProjectID)
	if err != nil {
		return AcceptResponse{}, err
	}

	alreadyMember := false
	for _, member := range project.Members {
		if member.ID == userID {
			alreadyMember = true
			break
		}
	}
	if !alreadyMember {
		if err := s.projects.AddProjectMember(ctx, project.ID, userID); err != nil {
			return AcceptResponse{}, err
		}
	}

	invitation.Status = repository.InvitationStatusAccepted
	if err := s.invitations.SaveInvitation(ctx, &invitation); err != nil {
		return AcceptResponse{}, err
	}

	return AcceptResponse{ProjectID: project.ID, ProjectName: project.Name}, nil
}

// Resend is owner-only. It rotates the token and extends the expiry.
func (s service) Resend(ctx context.Context, invitationID, userID string) error {
	invitation, err := s.invitations.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}

	project, err := s.projects.GetProject(ctx, invitation.ProjectID)
	if err != nil {
		return err
	}
	if project.OwnerID != userID {
		return ErrPermissionDenied
	}

	if invitation.Status == repository.InvitationStatusAccepted {
		return ErrAlreadyAccepted
	}

	newToken, err := randstr.HexToken(invitationTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation.Token = newToken
	invitation.ExpiresAt = time.Now().Add(invitationTTL)
	invitation.Status = repository.InvitationStatusPending
	if err := s.invitations.SaveInvitation(ctx, &invitation); err != nil {
		return err
	}

	return s.mail.SendProjectInvitation(ctx, invitation.Email, project.Name, invitation.InvitedBy.Name, newToken)
}

func (s service) ListByProject(ctx context.Context, projectID, userID string) ([]repository.Invitation, error) {
	ok, err := s.access.HasAccess(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	return s.invitations.ListInvitationsByProject(ctx, projectID)
}
