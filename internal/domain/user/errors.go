package user

import (
	"fmt"

	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
)

var (
	ErrNotFound        = httperr.ErrBusiness("user_not_found")
	ErrInvalidLogin    = httperr.ErrBusiness("invalid_credentials")
	ErrAccountInactive = httperr.ErrBusiness("account_inactive")
)

// ProtectedAccountError is returned when a delete targets a user holding
// the primordial admin role.
type ProtectedAccountError struct {
	UserID uint
}

func (e *ProtectedAccountError) Error() string {
	return fmt.Sprintf("user %d holds the protected admin role and cannot be deleted", e.UserID)
}

// ValidationError rejects a mutation before anything is written.
type ValidationError struct {
	Field string
	Code  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

func Invalid(field, code string) error {
	return &ValidationError{Field: field, Code: code}
}
