package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/workorg/server/internal/relay"
	"github.com/workorg/server/pkg/wsrouter"
)

type roomSignal struct {
	ProjectID string `json:"projectId"`
}

type playbackSignal struct {
	ProjectID   string  `json:"projectId"`
	CurrentTime float64 `json:"currentTime"`
}

type minimizedSignal struct {
	ProjectID   string `json:"projectId"`
	IsMinimized bool   `json:"isMinimized"`
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle(relay.EventJoinProject, c.onJoinProject)
	mux.Handle(relay.EventLeaveProject, c.onLeaveProject)
	mux.Handle(relay.EventPlay, c.playbackRelayHandler(relay.EventPlay))
	mux.Handle(relay.EventPause, c.playbackRelayHandler(relay.EventPause))
	mux.Handle(relay.EventSeek, c.playbackRelayHandler(relay.EventSeek))
	mux.Handle(relay.EventVideoAdded, c.signalRelayHandler(relay.EventVideoAdded))
	mux.Handle(relay.EventVideoRemoved, c.signalRelayHandler(relay.EventVideoRemoved))
	mux.Handle(relay.EventMinimized, c.onMinimized)

	mux.SetErrorHandler(func(ctx context.Context, messageType string, err error) {
		c.logger.WarnContext(ctx, "dropped message", "type", messageType, "error", err)
	})

	return mux
}

func (c controller) onJoinProject(ctx context.Context, payload json.RawMessage) error {
	var signal roomSignal
	if err := unmarshalSignal(payload, &signal); err != nil {
		return err
	}

	if err := c.requireProjectAccess(ctx, signal.ProjectID); err != nil {
		return err
	}

	c.registry.Join(c.getSessionIDFromCtx(ctx), signal.ProjectID)
	c.logger.InfoContext(ctx, "joined room", "project_id", signal.ProjectID)

	return nil
}

func (c controller) onLeaveProject(ctx context.Context, payload json.RawMessage) error {
	var signal roomSignal
	if err := unmarshalSignal(payload, &signal); err != nil {
		return err
	}

	c.registry.Leave(c.getSessionIDFromCtx(ctx), signal.ProjectID)
	c.logger.InfoContext(ctx, "left room", "project_id", signal.ProjectID)

	return nil
}

// playbackRelayHandler forwards play, pause and seek with their position,
// dropping the project id from the re-broadcast payload.
func (c controller) playbackRelayHandler(event string) wsrouter.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var signal playbackSignal
		if err := unmarshalSignal(payload, &signal); err != nil {
			return err
		}

		c.relay.Broadcast(ctx, signal.ProjectID, c.getSessionIDFromCtx(ctx), event,
			relay.PlaybackPayload{CurrentTime: signal.CurrentTime})

		return nil
	}
}

// signalRelayHandler forwards payload-free notifications; receivers react
// by refetching the playback record.
func (c controller) signalRelayHandler(event string) wsrouter.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) error {
		var signal roomSignal
		if err := unmarshalSignal(payload, &signal); err != nil {
			return err
		}

		c.relay.Broadcast(ctx, signal.ProjectID, c.getSessionIDFromCtx(ctx), event, nil)

		return nil
	}
}

func (c controller) onMinimized(ctx context.Context, payload json.RawMessage) error {
	var signal minimizedSignal
	if err := unmarshalSignal(payload, &signal); err != nil {
		return err
	}

	c.relay.Broadcast(ctx, signal.ProjectID, c.getSessionIDFromCtx(ctx), relay.EventMinimized,
		relay.MinimizedPayload{IsMinimized: signal.IsMinimized})

	return nil
}

func (c controller) requireProjectAccess(ctx context.Context, projectID string) error {
	if _, err := c.projectService.Get(ctx, projectID, c.getUserIDFromCtx(ctx)); err != nil {
		return fmt.Errorf("project access check failed: %w", err)
	}

	return nil
}

func unmarshalSignal(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}
