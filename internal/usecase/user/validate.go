package user

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkUnique rejects a username or email already used by another user.
// exceptID is the user being edited, zero on create.
func checkUnique(
	ctx context.Context,
	repo domain.Repository,
	username *string,
	email *string,
	exceptID uint,
) error {

	if username != nil {
		taken, err := repo.UsernameTaken(ctx, *username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return domain.Invalid("username", "username_taken")
		}
	}

	if email != nil {
		taken, err := repo.EmailTaken(ctx, *email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			return domain.Invalid("email", "email_taken")
		}
	}

	return nil
}

func checkRole(ctx context.Context, repo domain.Repository, roleID uint) error {
	ok, err := repo.RoleExists(ctx, roleID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("role_id", "role_not_found")
	}
	return nil
}

func checkStatus(s models.UserStatus) error {
	if !s.Valid() {
		return domain.Invalid("status", "invalid_status")
	}
	return nil
}

// EmailDomainCheck reports whether the domain of email can receive mail.
type EmailDomainCheck func(ctx context.Context, email string) bool

func checkEmailDomain(ctx context.Context, check EmailDomainCheck, email string) error {
	if check != nil && !check(ctx, email) {
		return domain.Invalid("email", "invalid_email_domain")
	}
	return nil
}
