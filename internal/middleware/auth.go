package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/auth"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	domainUser "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
	"github.com/BruksfildServices01/ajo-backend/internal/logger"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
)

const (
	ContextActor   = "actor"
	ContextTokenID = "tokenID"
)

// UserLookup loads the current state of the token's user.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthMiddleware turns a bearer token into an access.Actor on the context.
// The token must still be the user's live session, and the actor carries
// the role and status stored for the user now, not the ones at login.
func AuthMiddleware(tokens *auth.Tokens, sessions session.Store, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_authorization_header", "Expected a Bearer token.")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token", "Token is invalid or expired.")
			return
		}

		userID, err := claims.UserID()
		if err != nil || claims.RoleID == 0 {
			httperr.Abort(c, http.StatusUnauthorized, "invalid_token_payload", "Token payload is invalid.")
			return
		}

		active, err := sessions.IsActive(c.Request.Context(), userID, claims.ID)
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Uint("user_id", userID).Msg("session lookup failed")
			httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Internal server error.")
			return
		}
		if !active {
			httperr.Abort(c, http.StatusUnauthorized, "session_expired", "Session is no longer active.")
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, domainUser.ErrNotFound) {
			httperr.Abort(c, http.StatusUnauthorized, "session_expired", "Session is no longer active.")
			return
		}
		if err != nil {
			log := logger.Get()
			log.Error().Err(err).Uint("user_id", userID).Msg("user lookup failed")
			httperr.Abort(c, http.StatusInternalServerError, "internal_error", "Internal server error.")
			return
		}
		if u.Status != models.UserStatusActive {
			httperr.Abort(c, http.StatusUnauthorized, "account_inactive", "Your account is not active.")
			return
		}

		c.Set(ContextActor, &access.Actor{UserID: u.ID, RoleID: u.RoleID})
		c.Set(ContextTokenID, claims.ID)

		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil.
func ActorFrom(c *gin.Context) *access.Actor {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil
	}
	actor, _ := v.(*access.Actor)
	return actor
}
