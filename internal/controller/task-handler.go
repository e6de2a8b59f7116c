package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workorg/server/internal/service/task"
)

func (c controller) listProjectTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.taskService.ListByProject(r.Context(), chi.URLParam(r, "projectID"), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, tasks)
}

type createTaskInput struct {
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description"`
	ProjectID      string     `json:"projectId" validate:"required"`
	AssignedToID   *string    `json:"assignedTo"`
	Status         string     `json:"status" validate:"omitempty,oneof=todo in-progress review done"`
	Priority       string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	Tags           []string   `json:"tags"`
}

func (c controller) createTask(w http.ResponseWriter, r *http.Request) {
	var input createTaskInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	t, err := c.taskService.Create(r.Context(), &task.CreateParams{
		Title:          input.Title,
		Description:    input.Description,
		ProjectID:      input.ProjectID,
		AssignedToID:   input.AssignedToID,
		CreatedByID:    c.getUserIDFromCtx(r.Context()),
		Status:         input.Status,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Tags:           input.Tags,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, t)
}

type updateTaskInput struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	AssignedToID   *string    `json:"assignedTo"`
	Status         *string    `json:"status" validate:"omitempty,oneof=todo in-progress review done"`
	Priority       *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	DueDate        *time.Time `json:"dueDate"`
	EstimatedHours *float64   `json:"estimatedHours"`
	ActualHours    *float64   `json:"actualHours"`
	Tags           []string   `json:"tags"`
}

func (c controller) updateTask(w http.ResponseWriter, r *http.Request) {
	var input updateTaskInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	t, err := c.taskService.Update(r.Context(), &task.UpdateParams{
		TaskID:         chi.URLParam(r, "taskID"),
		UserID:         c.getUserIDFromCtx(r.Context()),
		Title:          input.Title,
		Description:    input.Description,
		AssignedToID:   input.AssignedToID,
		Status:         input.Status,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		Tags:           input.Tags,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, t)
}

func (c controller) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := c.taskService.Delete(r.Context(), chi.URLParam(r, "taskID"), c.getUserIDFromCtx(r.Context())); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
