package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workorg/server/internal/repository"
)

func (r repo) CreateProject(ctx context.Context, project *repository.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

func (r repo) GetProject(ctx context.Context, id string) (repository.Project, error) {
	var project repository.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Project{}, repository.ErrProjectNotFound
		}

		return repository.Project{}, err
	}

	return project, nil
}

// ListProjectsForUser returns projects the user owns or is a member of,
// newest first.
func (r repo) ListProjectsForUser(ctx context.Context, userID string) ([]repository.Project, error) {
	var projects []repository.Project
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Joins("LEFT JOIN project_members pm ON pm.project_id = projects.id").
		Where("projects.owner_id = ? OR pm.user_id = ?", userID, userID).
		Group("projects.id").
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

func (r repo) SaveProject(ctx context.Context, project *repository.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	return nil
}

func (r repo) DeleteProject(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&repository.Project{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

func (r repo) AddProjectMember(ctx context.Context, projectID, userID string) error {
	project := repository.Project{ID: projectID}
	err := r.db.WithContext(ctx).
		Model(&project).
		Association("Members").
		Append(&repository.User{ID: userID})
	if err != nil {
		return fmt.Errorf("failed to add project member: %w", err)
	}

	return nil
}
