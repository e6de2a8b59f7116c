package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/workorg/server/internal/service/video"
)

// sessionIDHeader carries the caller's websocket session id so relay
// notifications triggered by REST writes skip the caller's own tab.
const sessionIDHeader = "X-Session-Id"

func (c controller) getProjectVideo(w http.ResponseWriter, r *http.Request) {
	record, err := c.videoService.Get(r.Context(), chi.URLParam(r, "projectID"), c.getUserIDFromCtx(r.Context()))
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, record)
}

type addVideoInput struct {
	VideoURL string `json:"videoUrl" validate:"required"`
	Title    string `json:"title"`
}

func (c controller) addProjectVideo(w http.ResponseWriter, r *http.Request) {
	var input addVideoInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	record, err := c.videoService.Add(r.Context(), &video.AddParams{
		ProjectID: chi.URLParam(r, "projectID"),
		UserID:    c.getUserIDFromCtx(r.Context()),
		SessionID: r.Header.Get(sessionIDHeader),
		VideoURL:  input.VideoURL,
		Title:     input.Title,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, record)
}

type updateVideoStateInput struct {
	IsPlaying   *bool    `json:"isPlaying"`
	CurrentTime *float64 `json:"currentTime" validate:"omitempty,gte=0"`
	IsMinimized *bool    `json:"isMinimized"`
}

func (c controller) updateVideoState(w http.ResponseWriter, r *http.Request) {
	var input updateVideoStateInput
	if !c.decodeAndValidate(w, r, &input) {
		return
	}

	record, err := c.videoService.UpdateState(r.Context(), &video.UpdateStateParams{
		ProjectID:   chi.URLParam(r, "projectID"),
		UserID:      c.getUserIDFromCtx(r.Context()),
		SessionID:   r.Header.Get(sessionIDHeader),
		IsPlaying:   input.IsPlaying,
		CurrentTime: input.CurrentTime,
		IsMinimized: input.IsMinimized,
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, record)
}

func (c controller) removeProjectVideo(w http.ResponseWriter, r *http.Request) {
	err := c.videoService.Remove(r.Context(), &video.RemoveParams{
		ProjectID: chi.URLParam(r, "projectID"),
		UserID:    c.getUserIDFromCtx(r.Context()),
		SessionID: r.Header.Get(sessionIDHeader),
	})
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Video removed"})
}
