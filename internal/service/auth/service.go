package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/pkg/randstr"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrAlreadyVerified    = errors.New("email is already verified")
)

const (
	verificationTokenBytes = 32
	verificationTTL        = 24 * time.Hour
	blacklistKeyPrefix     = "blacklist:"
)

type iUserRepo interface {
	CreateUser(context.Context, *repository.User) error
	GetUserByID(context.Context, string) (repository.User, error)
	GetUserByEmail(context.Context, string) (repository.User, error)
	GetUserByVerificationToken(context.Context, string) (repository.User, error)
	SaveUser(context.Context, *repository.User) error
}

type iInvitationRepo interface {
	GetInvitationByToken(context.Context, string) (repository.Invitation, error)
	SaveInvitation(context.Context, *repository.Invitation) error
}

type iProjectRepo interface {
	GetProject(context.Context, string) (repository.Project, error)
	AddProjectMember(ctx context.Context, projectID, userID string) error
}

type iMailService interface {
	SendWelcome(ctx context.Context, to, name, projectName string) error
	SendVerification(ctx context.Context, to, name, token string) error
}

type iTokenManager interface {
	Generate(userID string) (string, error)
	Expiry(accessToken string) (time.Time, error)
}

type service struct {
	users       iUserRepo
	invitations iInvitationRepo
	projects    iProjectRepo
	mail        iMailService
	tokens      iTokenManager
	rc          *redis.Client
	logger      *slog.Logger
}

func NewService(users iUserRepo, invitations iInvitationRepo, projects iProjectRepo, mail iMailService, tokens iTokenManager, rc *redis.Client, logger *slog.Logger) *service {
	return &service{
		users:       users,
		invitations: invitations,
		projects:    projects,
		mail:        mail,
		tokens:      tokens,
		rc:          rc,
		logger:      logger,
	}
}

type RegisterParams struct {
	Name            string
	Email           string
	Password        string
	InvitationToken string
}

type ProjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RegisterResponse struct {
	Token   string          `json:"token"`
	User    repository.User `json:"user"`
	Project *ProjectInfo    `json:"project,omitempty"`
}

// Register creates the account and either starts email verification or,
// when a valid invitation token is supplied, joins the invited project and
// auto-verifies the address.
func (s service) Register(ctx context.Context, params *RegisterParams) (RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return RegisterResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return RegisterResponse{}, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	verificationToken, err := randstr.HexToken(verificationTokenBytes)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verificationExpires := time.Now().Add(verificationTTL)

	user := repository.User{
		Name:                     params.Name,
		Email:                    email,
		Password:                 string(hashed),
		EmailVerificationToken:   &verificationToken,
		EmailVerificationExpires: &verificationExpires,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return RegisterResponse{}, err
	}

	accessToken, err := s.tokens.Generate(user.ID)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	var projectInfo *ProjectInfo
	if params.InvitationToken != "" {
		projectInfo = s.acceptInvitationOnRegister(ctx, &user, params.InvitationToken)
	}

	if projectInfo == nil {
		if err := s.mail.SendVerification(ctx, user.Email, user.Name, verificationToken); err != nil {
			s.logger.WarnContext(ctx, "failed to send verification email", "error", err)
		}
	}

	return RegisterResponse{Token: accessToken, User: user, Project: projectInfo}, nil
}

// acceptInvitationOnRegister best-effort joins the invited project.
// Registration succeeds even if invitation processing fails.
func (s service) acceptInvitationOnRegister(ctx context.Context, user *repository.User, token string) *ProjectInfo {
	invitation, err := s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		s.logger.WarnContext(ctx, "invitation lookup failed during registration", "error", err)
		return nil
	}

	if invitation.Email != user.Email ||
		invitation.Status != repository.InvitationStatusPending ||
		invitation.ExpiresAt.Before(time.Now()) {
		return nil
	}

	project, err := s.projects.GetProject(ctx, invitation.ProjectID)
	if err != nil {
		s.logger.WarnContext(ctx, "invited project lookup failed", "error", err)
		return nil
	}

	if err := s.projects.AddProjectMember(ctx, project.ID, user.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to add invited member", "error", err)
		return nil
	}

	invitation.Status = repository.InvitationStatusAccepted
	if err := s.invitations.SaveInvitation(ctx, &invitation); err != nil {
		s.logger.WarnContext(ctx, "failed to mark invitation accepted", "error", err)
	}

	// Invited users skip email verification: the invitation already proved
	// they own the address.
	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	if err := s.users.SaveUser(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to mark invited user verified", "error", err)
	}

	if err := s.mail.SendWelcome(ctx, user.Email, user.Name, project.Name); err != nil {
		s.logger.WarnContext(ctx, "failed to send welcome email", "error", err)
	}

	return &ProjectInfo{ID: project.ID, Name: project.Name}
}

type LoginParams struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  repository.User `json:"user"`
}

func (s service) Login(ctx context.Context, params *LoginParams) (LoginResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(params.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResponse{}, ErrInvalidCredentials
		}

		return LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(params.Password)); err != nil {
		return LoginResponse{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Generate(user.ID)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return LoginResponse{Token: accessToken, User: user}, nil
}

func (s service) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.users.GetUserByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}

		return err
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	if err := s.users.SaveUser(ctx, &user); err != nil {
		return err
	}

	if err := s.mail.SendWelcome(ctx, user.Email, user.Name, ""); err != nil {
		s.logger.WarnContext(ctx, "failed to send welcome email", "error", err)
	}

	return nil
}

// ResendVerification issues a fresh token. An unknown email returns nil so
// the endpoint does not reveal whether an account exists.
func (s service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		return err
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	verificationToken, err := randstr.HexToken(verificationTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	verificationExpires := time.Now().Add(verificationTTL)

	user.EmailVerificationToken = &verificationToken
	user.EmailVerificationExpires = &verificationExpires
	if err := s.users.SaveUser(ctx, &user); err != nil {
		return err
	}

	return s.mail.SendVerification(ctx, user.Email, user.Name, verificationToken)
}

// Logout blacklists the access token until it would have expired anyway.
func (s service) Logout(ctx context.Context, accessToken string) error {
	expiry, err := s.tokens.Expiry(accessToken)
	if err != nil {
		return ErrInvalidCredentials
	}

	ttl := time.Until(expiry)
	if ttl <= 0 {
		return nil
	}

	if err := s.rc.Set(ctx, blacklistKeyPrefix+accessToken, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	return nil
}

func (s service) IsTokenBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	exists, err := s.rc.Exists(ctx, blacklistKeyPrefix+accessToken).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists > 0, nil
}

func (s service) GetUser(ctx context.Context, userID string) (repository.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
