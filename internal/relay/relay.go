// Package relay fans playback-control events out to the other sessions in
// a project's room. It is pure forwarding: it never reads or writes the
// playback store, and delivery is at-most-once with no retry.
package relay

import (
	"context"
	"log/slog"

	"github.com/workorg/server/internal/repository/connection"
)

// Wire-level signal names. Client-to-server payloads carry the project id;
// the relay strips it before re-broadcasting, so peers receive only the
// fields relevant to rendering.
const (
	EventConnected    = "connected"
	EventJoinProject  = "join-project"
	EventLeaveProject = "leave-project"
	EventPlay         = "video-play"
	EventPause        = "video-pause"
	EventSeek         = "video-seek"
	EventVideoAdded   = "video-added"
	EventVideoRemoved = "video-removed"
	EventMinimized    = "video-minimized"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// PlaybackPayload is the peer-facing payload for play, pause and seek.
type PlaybackPayload struct {
	CurrentTime float64 `json:"currentTime"`
}

// MinimizedPayload is the peer-facing payload for video-minimized.
type MinimizedPayload struct {
	IsMinimized bool `json:"isMinimized"`
}

// ConnectedPayload tells a freshly connected client its session id, which
// it echoes in X-Session-Id on REST writes so its own tab is excluded
// from the resulting notifications.
type ConnectedPayload struct {
	SessionID string `json:"sessionId"`
}

type iRegistry interface {
	MembersOf(projectID string) []string
}

type iConnRepo interface {
	Get(sessionID string) (connection.Peer, error)
}

type Relay struct {
	registry iRegistry
	conns    iConnRepo
	logger   *slog.Logger
}

func New(registry iRegistry, conns iConnRepo, logger *slog.Logger) *Relay {
	return &Relay{
		registry: registry,
		conns:    conns,
		logger:   logger,
	}
}

// Broadcast forwards one event to every session in the project's room
// except the sender. A project nobody joined fans out to an empty set;
// sessions without a live connection and failed writes are skipped, never
// retried and never surfaced to the sender.
func (r *Relay) Broadcast(ctx context.Context, projectID, senderID, event string, payload any) {
	msg := Message{Type: event, Payload: payload}

	for _, sessionID := range r.registry.MembersOf(projectID) {
		if sessionID == senderID {
			continue
		}

		peer, err := r.conns.Get(sessionID)
		if err != nil {
			continue
		}

		if err := peer.SendJSON(&msg); err != nil {
			r.logger.DebugContext(ctx, "dropped event for unreachable peer",
				"session_id", sessionID,
				"event", event,
			)
		}
	}
}
