package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/workorg/server/internal/relay"
	"github.com/workorg/server/internal/repository/connection"
	"github.com/workorg/server/pkg/ctxlogger"
)

// handleWS upgrades the connection and runs its read loop until the
// client disconnects. Browsers cannot set headers on websocket requests,
// so the access token arrives as a query parameter.
func (c controller) handleWS(w http.ResponseWriter, r *http.Request) {
	accessToken := r.URL.Query().Get("token")
	if accessToken == "" {
		c.writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	blacklisted, err := c.authService.IsTokenBlacklisted(r.Context(), accessToken)
	if err != nil {
		c.handleServiceError(w, r, err)
		return
	}
	if blacklisted {
		c.writeError(w, http.StatusUnauthorized, "token is no longer valid")
		return
	}

	userID, err := c.tokens.Verify(accessToken)
	if err != nil {
		c.writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	sessionID := uuid.NewString()

	ctx := context.WithValue(r.Context(), userIDCtxKey, userID)
	ctx = context.WithValue(ctx, sessionIDCtxKey, sessionID)
	ctx = ctxlogger.AppendCtx(ctx,
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	peer := connection.NewWSPeer(conn)
	if err := c.conns.Add(sessionID, peer); err != nil {
		c.logger.ErrorContext(ctx, "failed to register connection", "error", err)
		conn.Close()
		return
	}

	defer func() {
		rooms := c.registry.LeaveAll(sessionID)
		if err := c.conns.Remove(sessionID); err != nil {
			c.logger.WarnContext(ctx, "failed to unregister connection", "error", err)
		}
		peer.Close()
		c.logger.InfoContext(ctx, "session disconnected", "rooms_left", len(rooms))
	}()

	if err := peer.SendJSON(&relay.Message{
		Type:    relay.EventConnected,
		Payload: relay.ConnectedPayload{SessionID: sessionID},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to send session handshake", "error", err)
		return
	}

	c.logger.InfoContext(ctx, "session connected")

	if err := c.wsMux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "read loop ended", "error", err)
	}
}
