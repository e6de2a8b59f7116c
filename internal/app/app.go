package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/workorg/server/internal/controller"
	"github.com/workorg/server/internal/relay"
	conninmemory "github.com/workorg/server/internal/repository/connection/inmemory"
	pgrepo "github.com/workorg/server/internal/repository/postgres"
	roominmemory "github.com/workorg/server/internal/repository/room/inmemory"
	authservice "github.com/workorg/server/internal/service/auth"
	invitationservice "github.com/workorg/server/internal/service/invitation"
	mailservice "github.com/workorg/server/internal/service/mail"
	projectservice "github.com/workorg/server/internal/service/project"
	taskservice "github.com/workorg/server/internal/service/task"
	videoservice "github.com/workorg/server/internal/service/video"
	"github.com/workorg/server/pkg/ctxlogger"
	"github.com/workorg/server/pkg/mailer"
	"github.com/workorg/server/pkg/redisclient"
	"github.com/workorg/server/pkg/token"
)

type AppConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
	Secret   string `json:"-"`

	DatabaseDSN string `json:"-"`

	RedisHost     string `json:"redis_host"`
	RedisPort     int    `json:"redis_port"`
	RedisPassword string `json:"-"`

	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"-"`
	EmailFrom    string `json:"email_from"`

	ClientURL string `json:"client_url"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must not be empty")
	}
	if cfg.DatabaseDSN == "" {
		return fmt.Errorf("database dsn must not be empty")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be a valid tcp port")
	}
	return nil
}

const accessTokenTTL = 7 * 24 * time.Hour

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := pgrepo.NewRepo(db, logger)
	if err := repo.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	registry := roominmemory.NewRegistry(logger)
	conns := conninmemory.NewRepo(logger)
	eventRelay := relay.New(registry, conns, logger)

	tokens := token.NewManager(cfg.Secret, accessTokenTTL)
	mail := mailservice.NewService(mailer.New(&mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}), cfg.ClientURL, logger)

	authSvc := authservice.NewService(repo, repo, repo, mail, tokens, rc, logger)
	projectSvc := projectservice.NewService(repo, repo, repo, mail, logger)
	taskSvc := taskservice.NewService(repo, projectSvc, logger)
	invitationSvc := invitationservice.NewService(repo, repo, projectSvc, mail, logger)
	videoSvc := videoservice.NewService(repo, projectSvc, eventRelay, logger)

	ctrl := controller.NewController(&controller.Deps{
		AuthService:       authSvc,
		ProjectService:    projectSvc,
		TaskService:       taskSvc,
		InvitationService: invitationSvc,
		VideoService:      videoSvc,
		Tokens:            tokens,
		Registry:          registry,
		Conns:             conns,
		Relay:             eventRelay,
	}, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: ctrl.GetRouter([]string{cfg.ClientURL}),
	}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
