package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/workorg/server/pkg/ctxlogger"
)

func (c controller) requestIDMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", uuid.NewString()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// authMw authenticates the bearer token, rejects blacklisted tokens and
// stores the caller's user id in the request context.
func (c controller) authMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, err := extractBearerToken(r)
		if err != nil {
			c.writeError(w, http.StatusUnauthorized, "missing or invalid token")
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

		ctx := context.WithValue(r.Context(), userIDCtxKey, userID)
		ctx = ctxlogger.AppendCtx(ctx, slog.String("user_id", userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
