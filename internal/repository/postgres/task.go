package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workorg/server/internal/repository"
)

func (r repo) CreateTask(ctx context.Context, task *repository.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r repo) GetTask(ctx context.Context, id string) (repository.Task, error) {
	var task repository.Task
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("CreatedBy").
		First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.Task{}, repository.ErrTaskNotFound
		}

		return repository.Task{}, err
	}

	return task, nil
}

func (r repo) ListTasksByProject(ctx context.Context, projectID string) ([]repository.Task, error) {
	var tasks []repository.Task
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

func (r repo) SaveTask(ctx context.Context, task *repository.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

func (r repo) DeleteTask(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&repository.Task{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}
