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

func (r repo) CreateInvitation(ctx context.Context, invitation *repository.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

func (r repo) GetInvitationByID(ctx context.Context, id string) (repository.Invitation, error) {
	var invitation repository.Invitation
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("InvitedBy").
		First(&invitation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Invitation{}, repository.ErrInvitationNotFound
		}

		return repository.Invitation{}, err
	}

	return invitation, nil
}

func (r repo) GetInvitationByToken(ctx context.Context, token string) (repository.Invitation, error) {
	var invitation repository.Invitation
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("InvitedBy").
		First(&invitation, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Invitation{}, repository.ErrInvitationNotFound
		}

		return repository.Invitation{}, err
	}

	return invitation, nil
}

// GetPendingInvitation matches only pending, unexpired invitations for the
// email and project pair.
func (r repo) GetPendingInvitation(ctx context.Context, email, projectID string) (repository.Invitation, error) {
	var invitation repository.Invitation
	err := r.db.WithContext(ctx).
		Where("email = ? AND project_id = ? AND status = ? AND expires_at > ?",
			email, projectID, repository.InvitationStatusPending, time.Now()).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Invitation{}, repository.ErrInvitationNotFound
		}

		return repository.Invitation{}, err
	}

	return invitation, nil
}

func (r repo) ListInvitationsByProject(ctx context.Context, projectID string) ([]repository.Invitation, error) {
	var invitations []repository.Invitation
	err := r.db.WithContext(ctx).
		Preload("InvitedBy").
		Where("project_id = ? AND status <> ?", projectID, repository.InvitationStatusExpired).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

func (r repo) SaveInvitation(ctx context.Context, invitation *repository.Invitation) error {
	if err := r.db.WithContext(ctx).Save(invitation).Error; err != nil {
		return fmt.Errorf("failed to save invitation: %w", err)
	}

	return nil
}

func (r repo) DeleteInvitation(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&repository.Invitation{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}

	return nil
}
