package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/workorg/server/internal/service/project"
)

func (c controller) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := c.projectService.List(r.Context(), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, projects)
}

func (c controller) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := c.projectService.Get(r.Context(), chi.URLParam(r, "projectID"), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, p)
}

type createProjectInput struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Status      string    `json:"status" validate:"omitempty,oneof=planning active completed on-hold"`
}

func (c controller) createProject(w http.ResponseWriter, r *http.Request) {
	var input createProjectInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	p, err := c.projectService.Create(r.Context(), &project.CreateParams{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
		OwnerID:     c.getUserIDFromCtx(r.Context()),
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, p)
}

type updateProjectInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Status      *string    `json:"status" validate:"omitempty,oneof=planning active completed on-hold"`
}

func (c controller) updateProject(w http.ResponseWriter, r *http.Request) {
	var input updateProjectInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	p, err := c.projectService.Update(r.Context(), &project.UpdateParams{
		ProjectID:   chi.URLParam(r, "projectID"),
		UserID:      c.getUserIDFromCtx(r.Context()),
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      input.Status,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, p)
}

func (c controller) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := c.projectService.Delete(r.Context(), chi.URLParam(r, "projectID"), c.getUserIDFromCtx(r.Context())); err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

type addMemberInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (c controller) addProjectMember(w http.ResponseWriter, r *http.Request) {
	var input addMemberInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	resp, err := c.projectService.AddMember(r.Context(), &project.AddMemberParams{
		ProjectID: chi.URLParam(r, "projectID"),
		UserID:    c.getUserIDFromCtx(r.Context()),
		Email:     input.Email,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	if resp.Invited {
		c.writeJSON(w, http.StatusOK, map[string]any{
			"invited": true,
			"email":   resp.Email,
			"message": "Invitation sent",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp.Project)
}
