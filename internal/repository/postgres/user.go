package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workorg/server/internal/repository"
)

func (r repo) CreateUser(ctx context.Context, user *repository.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r repo) GetUserByID(ctx context.Context, id string) (repository.User, error) {
	var user repository.User
	if err := r.first(ctx, &user, repository.ErrUserNotFound, "id = ?", id); err != nil {
		return repository.User{}, err
	}

	return user, nil
}

func (r repo) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	var user repository.User
	if err := r.first(ctx, &user, repository.ErrUserNotFound, "email = ?", email); err != nil {
		return repository.User{}, err
	}

	return user, nil
}

// GetUserByVerificationToken matches only unexpired tokens.
func (r repo) GetUserByVerificationToken(ctx context.Context, token string) (repository.User, error) {
	var user repository.User
	err := r.db.WithContext(ctx).
		Where("email_verification_token = ? AND email_verification_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.User{}, repository.ErrUserNotFound
		}

		return repository.User{}, err
	}

	return user, nil
}

func (r repo) SaveUser(ctx context.Context, user *repository.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}
