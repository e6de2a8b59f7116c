package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/pkg/randstr"
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAlreadyMember     = errors.New("user is already a member")
	ErrInvitationPending = errors.New("an invitation has already been sent to this email")
)

const (
	invitationTokenBytes = 32
	invitationTTL        = 7 * 24 * time.Hour
)

type iProjectRepo interface {
	CreateProject(context.Context, *repository.Project) error
	GetProject(context.Context, string) (repository.Project, error)
	ListProjectsForUser(context.Context, string) ([]repository.Project, error)
	SaveProject(context.Context, *repository.Project) error
	DeleteProject(context.Context, string) error
	AddProjectMember(ctx context.Context, projectID, userID string) error
}

type iUserRepo interface {
	GetUserByID(context.Context, string) (repository.User, error)
	GetUserByEmail(context.Context, string) (repository.User, error)
}

type iInvitationRepo interface {
	CreateInvitation(context.Context, *repository.Invitation) error
	GetPendingInvitation(ctx context.Context, email, projectID string) (repository.Invitation, error)
	DeleteInvitation(context.Context, string) error
}

type iMailService interface {
	SendProjectInvitation(ctx context.Context, to, projectName, inviterName, token string) error
}

type service struct {
	projects    iProjectRepo
	users       iUserRepo
	invitations iInvitationRepo
	mail        iMailService
	logger      *slog.Logger
}

func NewService(projects iProjectRepo, users iUserRepo, invitations iInvitationRepo, mail iMailService, logger *slog.Logger) *service {
	return &service{
		projects:    projects,
		users:       users,
		invitations: invitations,
		mail:        mail,
		logger:      logger,
	}
}

// HasAccess reports whether the user owns the project or is a member.
// Every route returning project-scoped data goes through this check.
func (s service) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return false, err
	}

	return hasAccess(&project, userID), nil
}

func hasAccess(project *repository.Project, userID string) bool {
	if project.OwnerID == userID {
		return true
	}
	for _, member := range project.Members {
		if member.ID == userID {
			return true
		}
	}

	return false
}

func (s service) List(ctx context.Context, userID string) ([]repository.Project, error) {
	return s.projects.ListProjectsForUser(ctx, userID)
}

func (s service) Get(ctx context.Context, projectID, userID string) (repository.Project, error) {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return repository.Project{}, err
	}

	if !hasAccess(&project, userID) {
		return repository.Project{}, ErrPermissionDenied
	}

	return project, nil
}

type CreateParams struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
	OwnerID     string
}

func (s service) Create(ctx context.Context, params *CreateParams) (repository.Project, error) {
	status := params.Status
	if status == "" {
		status = repository.ProjectStatusActive
	}

	project := repository.Project{
		Name:        params.Name,
		Description: params.Description,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		OwnerID:     params.OwnerID,
		Members:     []repository.User{{ID: params.OwnerID}},
		Status:      status,
	}
	if err := s.projects.CreateProject(ctx, &project); err != nil {
		return repository.Project{}, err
	}

	return s.projects.GetProject(ctx, project.ID)
}

type UpdateParams struct {
	ProjectID   string
	UserID      string
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
}

// Update is owner-only; nil fields are left unchanged.
func (s service) Update(ctx context.Context, params *UpdateParams) (repository.Project, error) {
	project, err := s.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		return repository.Project{}, err
	}

	if project.OwnerID != params.UserID {
		return repository.Project{}, ErrPermissionDenied
	}

	if params.Name != nil {
		project.Name = *params.Name
	}
	if params.Description != nil {
		project.Description = *params.Description
	}
	if params.StartDate != nil {
		project.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		project.EndDate = *params.EndDate
	}
	if params.Status != nil {
		project.Status = *params.Status
	}

	if err := s.projects.SaveProject(ctx, &project); err != nil {
		return repository.Project{}, err
	}

	return s.projects.GetProject(ctx, project.ID)
}

func (s service) Delete(ctx context.Context, projectID, userID string) error {
	project, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return err
	}

	if project.OwnerID != userID {
		return ErrPermissionDenied
	}

	return s.projects.DeleteProject(ctx, projectID)
}

type AddMemberParams struct {
	ProjectID string
	UserID    string
	Email     string
}

type AddMemberResponse struct {
	Invited bool
	Email   string
	Project *repository.Project
}

// AddMember adds an existing user directly, or creates a 7-day invitation
// and emails it when no account exists for the address. The invitation is
// rolled back if the email cannot be sent.
func (s service) AddMember(ctx context.Context, params *AddMemberParams) (AddMemberResponse, error) {
	project, err := s.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		return AddMemberResponse{}, err
	}

	if project.OwnerID != params.UserID {
		return AddMemberResponse{}, ErrPermissionDenied
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		for _, member := range project.Members {
			if member.ID == user.ID {
				return AddMemberResponse{}, ErrAlreadyMember
			}
		}

		if err := s.projects.AddProjectMember(ctx, project.ID, user.ID); err != nil {
			return AddMemberResponse{}, err
		}

		updated, err := s.projects.GetProject(ctx, project.ID)
		if err != nil {
			return AddMemberResponse{}, err
		}

		return AddMemberResponse{Project: &updated}, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return AddMemberResponse{}, err
	}

	if _, err := s.invitations.GetPendingInvitation(ctx, email, project.ID); err == nil {
		return AddMemberResponse{}, ErrInvitationPending
	} else if !errors.Is(err, repository.ErrInvitationNotFound) {
		return AddMemberResponse{}, err
	}

	invitationToken, err := randstr.HexToken(invitationTokenBytes)
	if err != nil {
		return AddMemberResponse{}, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := repository.Invitation{
		Email:       email,
		ProjectID:   project.ID,
		InvitedByID: params.UserID,
		Token:       invitationToken,
		Status:      repository.InvitationStatusPending,
		ExpiresAt:   time.Now().Add(invitationTTL),
	}
	if err := s.invitations.CreateInvitation(ctx, &invitation); err != nil {
		return AddMemberResponse{}, err
	}

	inviter, err := s.users.GetUserByID(ctx, params.UserID)
	inviterName := "A team member"
	if err == nil {
		inviterName = inviter.Name
	}

	if err := s.mail.SendProjectInvitation(ctx, email, project.Name, inviterName, invitationToken); err != nil {
		if delErr := s.invitations.DeleteInvitation(ctx, invitation.ID); delErr != nil {
			s.logger.WarnContext(ctx, "failed to roll back invitation", "error", delErr)
		}

		return AddMemberResponse{}, fmt.Errorf("failed to send invitation email: %w", err)
	}

	return AddMemberResponse{Invited: true, Email: email}, nil
}
