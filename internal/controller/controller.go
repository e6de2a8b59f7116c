package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/internal/repository/connection"
	"github.com/workorg/server/internal/service/auth"
	"github.com/workorg/server/internal/service/invitation"
	"github.com/workorg/server/internal/service/project"
	"github.com/workorg/server/internal/service/task"
	"github.com/workorg/server/internal/service/video"
	"github.com/workorg/server/pkg/validator"
	"github.com/workorg/server/pkg/wsrouter"
)

type iAuthService interface {
	Register(context.Context, *auth.RegisterParams) (auth.RegisterResponse, error)
	Login(context.Context, *auth.LoginParams) (auth.LoginResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Logout(ctx context.Context, accessToken string) error
	IsTokenBlacklisted(ctx context.Context, accessToken string) (bool, error)
	GetUser(ctx context.Context, userID string) (repository.User, error)
}

type iProjectService interface {
	List(ctx context.Context, userID string) ([]repository.Project, error)
	Get(ctx context.Context, projectID, userID string) (repository.Project, error)
	Create(context.Context, *project.CreateParams) (repository.Project, error)
	Update(context.Context, *project.UpdateParams) (repository.Project, error)
	Delete(ctx context.Context, projectID, userID string) error
	AddMember(context.Context, *project.AddMemberParams) (project.AddMemberResponse, error)
}

type iTaskService interface {
	ListByProject(ctx context.Context, projectID, userID string) ([]repository.Task, error)
	Create(context.Context, *task.CreateParams) (repository.Task, error)
	Update(context.Context, *task.UpdateParams) (repository.Task, error)
	Delete(ctx context.Context, taskID, userID string) error
}

type iInvitationService interface {
	GetByToken(ctx context.Context, token string) (repository.Invitation, error)
	Accept(ctx context.Context, token, userID string) (invitation.AcceptResponse, error)
	Resend(ctx context.Context, invitationID, userID string) error
	ListByProject(ctx context.Context, projectID, userID string) ([]repository.Invitation, error)
}

type iVideoService interface {
	Get(ctx context.Context, projectID, userID string) (*repository.PlaybackRecord, error)
	Add(context.Context, *video.AddParams) (repository.PlaybackRecord, error)
	UpdateState(context.Context, *video.UpdateStateParams) (repository.PlaybackRecord, error)
	Remove(context.Context, *video.RemoveParams) error
}

type iTokenVerifier interface {
	Verify(accessToken string) (string, error)
}

type iRegistry interface {
	Join(sessionID, projectID string)
	Leave(sessionID, projectID string)
	LeaveAll(sessionID string) []string
}

type iConnRepo interface {
	Add(sessionID string, peer connection.Peer) error
	Remove(sessionID string) error
}

type iRelay interface {
	Broadcast(ctx context.Context, projectID, senderID, event string, payload any)
}

type Deps struct {
	AuthService       iAuthService
	ProjectService    iProjectService
	TaskService       iTaskService
	InvitationService iInvitationService
	VideoService      iVideoService
	Tokens            iTokenVerifier
	Registry          iRegistry
	Conns             iConnRepo
	Relay             iRelay
}

type controller struct {
	authService       iAuthService
	projectService    iProjectService
	taskService       iTaskService
	invitationService iInvitationService
	videoService      iVideoService
	tokens            iTokenVerifier
	registry          iRegistry
	conns             iConnRepo
	relay             iRelay

	upgrader websocket.Upgrader
	validate *validator.Validator
	wsMux    *wsrouter.WSRouter
	logger   *slog.Logger
}

func NewController(deps *Deps, logger *slog.Logger) *controller {
	c := &controller{
		authService:       deps.AuthService,
		projectService:    deps.ProjectService,
		taskService:       deps.TaskService,
		invitationService: deps.InvitationService,
		videoService:      deps.VideoService,
		tokens:            deps.Tokens,
		registry:          deps.Registry,
		conns:             deps.Conns,
		relay:             deps.Relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsMux = c.getWSRouter()

	return c
}
