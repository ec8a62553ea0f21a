package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
	"github.com/BruksfildServices01/ajo-backend/internal/logger"
	"github.com/BruksfildServices01/ajo-backend/internal/metrics"
)

// RoleAccess lets the request through only when the actor's role is one of
// names. It must run after AuthMiddleware; without an actor it answers 401.
func RoleAccess(roles access.RoleMap, names ...string) gin.HandlerFunc {
	gate := access.NewGate(roles, names...)

	if unresolved := gate.Unresolved(); len(unresolved) > 0 {
		log := logger.Get()
		log.Warn().
			Strs("configured", names).
			Strs("unresolved", unresolved).
			Bool("deny_all", gate.Empty()).
			Msg("role gate has unknown role names")
	}

	return func(c *gin.Context) {
		err := gate.Check(ActorFrom(c))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, access.ErrUnauthenticated):
			metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
			httperr.Abort(c, http.StatusUnauthorized, "unauthenticated", "Unauthenticated.")
		default:
			metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
			httperr.Abort(c, http.StatusForbidden, "forbidden", "You do not have permission to access this resource.")
		}
	}
}
