package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	domainUser "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
	"github.com/BruksfildServices01/ajo-backend/internal/logger"
)

// respondError maps a use case error to the JSON error envelope. Only
// errors without a known mapping are logged.
func respondError(c *gin.Context, err error) {
	var (
		protected *domainUser.ProtectedAccountError
		invalid   *domainUser.ValidationError
	)

	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		httperr.Unauthorized(c, "unauthenticated", "Unauthenticated.")

	case errors.Is(err, access.ErrForbidden):
		httperr.Forbidden(c, "forbidden", "You do not have permission to access this resource.")

	case errors.As(err, &protected):
		httperr.Forbidden(c, "protected_account", "This account cannot be deleted.")

	case errors.As(err, &invalid):
		if strings.HasSuffix(invalid.Code, "_taken") {
			c.JSON(http.StatusConflict, httperr.HTTPError{
				Code:    invalid.Code,
				Message: "The " + invalid.Field + " has already been taken.",
				Field:   invalid.Field,
			})
			return
		}
		httperr.Unprocessable(c, "validation_failed", invalid.Field, invalid.Code)

	case errors.Is(err, domainUser.ErrNotFound):
		httperr.NotFound(c, "user_not_found", "User not found.")

	case errors.Is(err, domainUser.ErrInvalidLogin):
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")

	case errors.Is(err, domainUser.ErrAccountInactive):
		httperr.Forbidden(c, "account_inactive", "Your account is not active.")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		httperr.Conflict(c, "conflict", "The resource already exists.")

	case errors.Is(err, gorm.ErrForeignKeyViolated):
		httperr.Conflict(c, "resource_in_use", "The resource is still referenced.")

	default:
		if code, ok := httperr.BusinessCode(err); ok {
			httperr.BadRequest(c, code, code)
			return
		}

		log := logger.Get()
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("unhandled error")
		httperr.Internal(c, "internal_error", "Internal server error.")
	}
}

func badRequest(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}

// idParam parses the :id path parameter, answering 400 when it is not a
// positive integer.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(id), true
}
