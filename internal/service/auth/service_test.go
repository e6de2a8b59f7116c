package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/internal/repository/postgres"
	"github.com/workorg/server/internal/service/auth"
	"github.com/workorg/server/pkg/token"
)

type sentMail struct {
	kind string
	to   string
}

type fakeMail struct {
	sent []sentMail
}

func (m *fakeMail) SendWelcome(ctx context.Context, to, name, projectName string) error {
	m.sent = append(m.sent, sentMail{kind: "welcome", to: to})
	return nil
}

func (m *fakeMail) SendVerification(ctx context.Context, to, name, token string) error {
	m.sent = append(m.sent, sentMail{kind: "verification", to: to})
	return nil
}

type authService interface {
	Register(context.Context, *auth.RegisterParams) (auth.RegisterResponse, error)
	Login(context.Context, *auth.LoginParams) (auth.LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Logout(ctx context.Context, accessToken string) error
	IsTokenBlacklisted(ctx context.Context, accessToken string) (bool, error)
}

type store interface {
	CreateUser(context.Context, *repository.User) error
	GetUserByEmail(context.Context, string) (repository.User, error)
	CreateProject(context.Context, *repository.Project) error
	GetProject(context.Context, string) (repository.Project, error)
	CreateInvitation(context.Context, *repository.Invitation) error
	GetInvitationByToken(context.Context, string) (repository.Invitation, error)
}

type testEnv struct {
	svc  authService
	repo store
	mail *fakeMail
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := postgres.NewRepo(db, slog.Default())
	require.NoError(t, repo.AutoMigrate())

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mail := &fakeMail{}
	tokens := token.NewManager("test-secret", time.Hour)
	svc := auth.NewService(repo, repo, repo, mail, tokens, rc, slog.Default())

	return testEnv{svc: svc, repo: repo, mail: mail}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Register(ctx, &auth.RegisterParams{
		Name:     "Dana",
		Email:    "Dana@Example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "dana@example.com", resp.User.Email, "email is normalized")
	assert.False(t, resp.User.IsEmailVerified)
	assert.Nil(t, resp.Project)

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "verification", env.mail.sent[0].kind)

	// same address again
	_, err = env.svc.Register(ctx, &auth.RegisterParams{
		Name:     "Imposter",
		Email:    "dana@example.com",
		Password: "hunter22",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	login, err := env.svc.Login(ctx, &auth.LoginParams{Email: "dana@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = env.svc.Login(ctx, &auth.LoginParams{Email: "dana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, &auth.LoginParams{Email: "nobody@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Register(ctx, &auth.RegisterParams{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User.EmailVerificationToken)

	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, "no-such-token"), auth.ErrInvalidToken)

	require.NoError(t, env.svc.VerifyEmail(ctx, *resp.User.EmailVerificationToken))

	user, err := env.repo.GetUserByEmail(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	assert.Nil(t, user.EmailVerificationToken)

	// token is single use
	assert.ErrorIs(t, env.svc.VerifyEmail(ctx, *resp.User.EmailVerificationToken), auth.ErrInvalidToken)

	assert.ErrorIs(t, env.svc.ResendVerification(ctx, "dana@example.com"), auth.ErrAlreadyVerified)
	assert.NoError(t, env.svc.ResendVerification(ctx, "stranger@example.com"), "unknown address is not revealed")
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.svc.Register(ctx, &auth.RegisterParams{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	blacklisted, err := env.svc.IsTokenBlacklisted(ctx, resp.Token)
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, env.svc.Logout(ctx, resp.Token))

	blacklisted, err = env.svc.IsTokenBlacklisted(ctx, resp.Token)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	assert.ErrorIs(t, env.svc.Logout(ctx, "garbage"), auth.ErrInvalidCredentials)
}

func TestRegisterWithInvitationJoinsProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := repository.User{Name: "Owner", Email: "owner@example.com", Password: "hashed"}
	require.NoError(t, env.repo.CreateUser(ctx, &owner))

	project := repository.Project{
		Name:    "Launch",
		OwnerID: owner.ID,
		Members: []repository.User{owner},
		Status:  repository.ProjectStatusActive,
	}
	require.NoError(t, env.repo.CreateProject(ctx, &project))

	invitation := repository.Invitation{
		Email:       "invitee@example.com",
		ProjectID:   project.ID,
		InvitedByID: owner.ID,
		Token:       uuid.NewString(),
		Status:      repository.InvitationStatusPending,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, env.repo.CreateInvitation(ctx, &invitation))

	resp, err := env.svc.Register(ctx, &auth.RegisterParams{
		Name:            "Invitee",
		Email:           "invitee@example.com",
		Password:        "hunter22",
		InvitationToken: invitation.Token,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Project)
	assert.Equal(t, project.ID, resp.Project.ID)

	updated, err := env.repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	memberIDs := make([]string, 0, len(updated.Members))
	for _, m := range updated.Members {
		memberIDs = append(memberIDs, m.ID)
	}
	assert.Contains(t, memberIDs, resp.User.ID)

	accepted, err := env.repo.GetInvitationByToken(ctx, invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, repository.InvitationStatusAccepted, accepted.Status)

	user, err := env.repo.GetUserByEmail(ctx, "invitee@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified, "the invitation already proved address ownership")

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "welcome", env.mail.sent[0].kind)
}

func TestRegisterWithMismatchedInvitationFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := repository.User{Name: "Owner", Email: "owner@example.com", Password: "hashed"}
	require.NoError(t, env.repo.CreateUser(ctx, &owner))

	project := repository.Project{Name: "Launch", OwnerID: owner.ID, Members: []repository.User{owner}}
	require.NoError(t, env.repo.CreateProject(ctx, &project))

	invitation := repository.Invitation{
		Email:       "someone-else@example.com",
		ProjectID:   project.ID,
		InvitedByID: owner.ID,
		Token:       uuid.NewString(),
		Status:      repository.InvitationStatusPending,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, env.repo.CreateInvitation(ctx, &invitation))

	resp, err := env.svc.Register(ctx, &auth.RegisterParams{
		Name:            "Invitee",
		Email:           "invitee@example.com",
		Password:        "hunter22",
		InvitationToken: invitation.Token,
	})
	require.NoError(t, err, "registration still succeeds")
	assert.Nil(t, resp.Project, "an invitation for another address is ignored")
	assert.False(t, resp.User.IsEmailVerified)

	require.Len(t, env.mail.sent, 1)
	assert.Equal(t, "verification", env.mail.sent[0].kind)
}
