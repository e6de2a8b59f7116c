package inmemory

import (
	"log/slog"
	"sync"

	"github.com/workorg/server/internal/repository/connection"
)

// repo maps session ids to their realtime peers. Purely in-memory:
// associations are lost on disconnect and rebuilt as clients reconnect.
type repo struct {
	peers  map[string]connection.Peer
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		peers:  make(map[string]connection.Peer),
		logger: logger,
	}
}

func (r *repo) Add(sessionID string, peer connection.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[sessionID]; ok {
		return connection.ErrAlreadyExists
	}

	r.peers[sessionID] = peer
	r.logger.Debug("connection added", "session_id", sessionID)

	return nil
}

func (r *repo) Remove(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[sessionID]; !ok {
		return connection.ErrNotFound
	}

	delete(r.peers, sessionID)
	r.logger.Debug("connection removed", "session_id", sessionID)

	return nil
}

func (r *repo) Get(sessionID string) (connection.Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	peer, ok := r.peers[sessionID]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return peer, nil
}
