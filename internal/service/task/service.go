package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/workorg/server/internal/repository"
)

var ErrPermissionDenied = errors.New("permission denied")

type iTaskRepo interface {
	CreateTask(context.Context, *repository.Task) error
	GetTask(context.Context, string) (repository.Task, error)
	ListTasksByProject(context.Context, string) ([]repository.Task, error)
	SaveTask(context.Context, *repository.Task) error
	DeleteTask(context.Context, string) error
}

type iProjectAccess interface {
	HasAccess(ctx context.Context, projectID, userID string) (bool, error)
}

type service struct {
	tasks  iTaskRepo
	access iProjectAccess
	logger *slog.Logger
}

func NewService(tasks iTaskRepo, access iProjectAccess, logger *slog.Logger) *service {
	return &service{tasks: tasks, access: access, logger: logger}
}

func (s service) ListByProject(ctx context.Context, projectID, userID string) ([]repository.Task, error) {
	ok, err := s.access.HasAccess(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}

	return s.tasks.ListTasksByProject(ctx, projectID)
}

type CreateParams struct {
	Title          string
	Description    string
	ProjectID      string
	AssignedToID   *string
	CreatedByID    string
	Status         string
	Priority       string
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
}

func (s service) Create(ctx context.Context, params *CreateParams) (repository.Task, error) {
	ok, err := s.access.HasAccess(ctx, params.ProjectID, params.CreatedByID)
	if err != nil {
		return repository.Task{}, err
	}
	if !ok {
		return repository.Task{}, ErrPermissionDenied
	}

	status := params.Status
	if status == "" {
		status = repository.TaskStatusTodo
	}
	priority := params.Priority
	if priority == "" {
		priority = repository.TaskPriorityMedium
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	task := repository.Task{
		Title:          params.Title,
		Description:    params.Description,
		ProjectID:      params.ProjectID,
		AssignedToID:   params.AssignedToID,
		CreatedByID:    params.CreatedByID,
		Status:         status,
		Priority:       priority,
		DueDate:        params.DueDate,
		EstimatedHours: params.EstimatedHours,
		Tags:           tags,
	}
	if err := s.tasks.CreateTask(ctx, &task); err != nil {
		return repository.Task{}, err
	}

	return s.tasks.GetTask(ctx, task.ID)
}

type UpdateParams struct {
	TaskID         string
	UserID         string
	Title          *string
	Description    *string
	AssignedToID   *string
	Status         *string
	Priority       *string
	DueDate        *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	Tags           []string
}

// Update applies a partial update. Moving a task into done stamps
// CompletedAt; moving it back out clears the stamp.
func (s service) Update(ctx context.Context, params *UpdateParams) (repository.Task, error) {
	task, err := s.tasks.GetTask(ctx, params.TaskID)
	if err != nil {
		return repository.Task{}, err
	}

	ok, err := s.access.HasAccess(ctx, task.ProjectID, params.UserID)
	if err != nil {
		return repository.Task{}, err
	}
	if !ok {
		return repository.Task{}, ErrPermissionDenied
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.AssignedToID != nil {
		task.AssignedToID = params.AssignedToID
	}
	if params.Status != nil && *params.Status != task.Status {
		task.Status = *params.Status
		if task.Status == repository.TaskStatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.EstimatedHours != nil {
		task.EstimatedHours = params.EstimatedHours
	}
	if params.ActualHours != nil {
		task.ActualHours = params.ActualHours
	}
	if params.Tags != nil {
		task.Tags = params.Tags
	}

	if err := s.tasks.SaveTask(ctx, &task); err != nil {
		return repository.Task{}, err
	}

	return s.tasks.GetTask(ctx, task.ID)
}

func (s service) Delete(ctx context.Context, taskID, userID string) error {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	ok, err := s.access.HasAccess(ctx, task.ProjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}

	return s.tasks.DeleteTask(ctx, taskID)
}
