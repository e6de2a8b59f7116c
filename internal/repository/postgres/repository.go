package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/workorg/server/internal/repository"
)

type repo struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepo(db *gorm.DB, logger *slog.Logger) *repo {
	return &repo{db: db, logger: logger}
}

func (r repo) AutoMigrate() error {
	if err := r.db.AutoMigrate(
		&repository.User{},
		&repository.Project{},
		&repository.Task{},
		&repository.Invitation{},
		&repository.PlaybackRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

func (r repo) first(ctx context.Context, dest any, notFound error, query string, args ...any) error {
	if err := r.db.WithContext(ctx).Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}

		return err
	}

	return nil
}
