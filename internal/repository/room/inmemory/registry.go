// Package inmemory holds the ephemeral session-to-project room
// associations used to scope event fan-out. Membership is process-local:
// nothing is persisted and clients must rejoin after reconnecting.
package inmemory

import (
	"log/slog"
	"sync"
)

type Registry struct {
	rooms    map[string]map[string]struct{} // projectID -> session ids
	sessions map[string]map[string]struct{} // sessionID -> project ids
	mu       sync.RWMutex
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		rooms:    make(map[string]map[string]struct{}),
		sessions: make(map[string]map[string]struct{}),
		logger:   logger,
	}
}

// Join associates a session with a project's room. A session may belong to
// several rooms at once; joining does not evict earlier memberships.
func (r *Registry) Join(sessionID, projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[projectID] == nil {
		r.rooms[projectID] = make(map[string]struct{})
	}
	r.rooms[projectID][sessionID] = struct{}{}

	if r.sessions[sessionID] == nil {
		r.sessions[sessionID] = make(map[string]struct{})
	}
	r.sessions[sessionID][projectID] = struct{}{}

	r.logger.Debug("session joined room", "session_id", sessionID, "project_id", projectID)
}

// Leave removes the association. No-op if absent.
func (r *Registry) Leave(sessionID, projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaveLocked(sessionID, projectID)
}

// LeaveAll removes the session from every room it joined and returns the
// project ids it left. Called on disconnect.
func (r *Registry) LeaveAll(sessionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	left := make([]string, 0, len(r.sessions[sessionID]))
	for projectID := range r.sessions[sessionID] {
		left = append(left, projectID)
	}
	for _, projectID := range left {
		r.leaveLocked(sessionID, projectID)
	}

	return left
}

// MembersOf returns the sessions currently joined to the project's room.
func (r *Registry) MembersOf(projectID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]string, 0, len(r.rooms[projectID]))
	for sessionID := range r.rooms[projectID] {
		members = append(members, sessionID)
	}

	return members
}

func (r *Registry) leaveLocked(sessionID, projectID string) {
	if room, ok := r.rooms[projectID]; ok {
		delete(room, sessionID)
		if len(room) == 0 {
			delete(r.rooms, projectID)
		}
	}

	if projects, ok := r.sessions[sessionID]; ok {
		delete(projects, projectID)
		if len(projects) == 0 {
			delete(r.sessions, sessionID)
		}
	}

	r.logger.Debug("session left room", "session_id", sessionID, "project_id", projectID)
}
