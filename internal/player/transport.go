package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/workorg/server/internal/relay"
	"github.com/workorg/server/pkg/wsrouter"
)

var ErrTransportUnavailable = errors.New("realtime channel unavailable")

const (
	dialAttempts    = 5
	dialBackoffBase = time.Second
)

// Transport is the client side of the realtime channel. Writes are
// serialized; reads happen on the Listen goroutine only.
type Transport struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	logger *slog.Logger

	sessionMu sync.RWMutex
	sessionID string
}

// Dial connects to the server's realtime endpoint with bounded retry and
// exponential backoff.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Transport, error) {
	var lastErr error
	delay := dialBackoffBase

	for attempt := 0; attempt < dialAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			lastErr = err
			logger.Warn("realtime dial failed", "attempt", attempt+1, "error", err)
			continue
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}

		return &Transport{conn: conn, logger: logger}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrTransportUnavailable, lastErr)
}

func (t *Transport) Emit(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.conn.WriteJSON(&wsrouter.Message{Type: event, Payload: raw}); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
	}

	return nil
}

// Listen reads relayed events and dispatches them to the controller until
// the connection drops.
func (t *Transport) Listen(ctx context.Context, c *Controller) error {
	for {
		var msg wsrouter.Message
		if err := t.conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
		}

		switch msg.Type {
		case relay.EventConnected:
			var p relay.ConnectedPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				t.logger.Debug("malformed handshake payload", "error", err)
				continue
			}
			t.sessionMu.Lock()
			t.sessionID = p.SessionID
			t.sessionMu.Unlock()
		case relay.EventPlay, relay.EventPause, relay.EventSeek:
			var p relay.PlaybackPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				t.logger.Debug("malformed playback payload", "type", msg.Type, "error", err)
				continue
			}
			switch msg.Type {
			case relay.EventPlay:
				c.ApplyPlay(p.CurrentTime)
			case relay.EventPause:
				c.ApplyPause(p.CurrentTime)
			case relay.EventSeek:
				c.ApplySeek(p.CurrentTime)
			}
		case relay.EventVideoAdded:
			if err := c.ApplyVideoAdded(ctx); err != nil {
				t.logger.Warn("failed to reconcile after video-added", "error", err)
			}
		case relay.EventVideoRemoved:
			c.ApplyVideoRemoved()
		case relay.EventMinimized:
			var p relay.MinimizedPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				t.logger.Debug("malformed minimized payload", "error", err)
				continue
			}
			c.ApplyMinimized(p.IsMinimized)
		default:
			t.logger.Debug("ignoring unknown event", "type", msg.Type)
		}
	}
}

// SessionID returns the id assigned by the server on connect, sent along
// with REST writes so the relay skips this client's own tab. Empty until
// the handshake arrives.
func (t *Transport) SessionID() string {
	t.sessionMu.RLock()
	defer t.sessionMu.RUnlock()

	return t.sessionID
}

func (t *Transport) Close() error {
	return t.conn.Close()
}
