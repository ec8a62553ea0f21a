package user

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/ajo-backend/internal/auth"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
)

type Login struct {
	repo     domain.Repository
	tokens   *auth.Tokens
	sessions session.Store
	now      func() time.Time
}

func NewLogin(
	repo domain.Repository,
	tokens *auth.Tokens,
	sessions session.Store,
) *Login {
	return &Login{
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		now:      time.Now,
	}
}

type LoginOutput struct {
	User  *models.User
	Token string
}

// Execute checks the credentials and starts a new session, ending any
// earlier session of the same user.
func (uc *Login) Execute(
	ctx context.Context,
	email string,
	password string,
) (*LoginOutput, error) {

	u, err := uc.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidLogin
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidLogin
	}

	if u.Status != models.UserStatusActive {
		return nil, domain.ErrAccountInactive
	}

	issued, err := uc.tokens.Issue(u.ID, u.RoleID)
	if err != nil {
		return nil, err
	}

	if err := uc.sessions.Activate(ctx, u.ID, issued.ID, uc.tokens.TTL()); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := uc.repo.UpdateColumns(ctx, u.ID, map[string]any{"last_login": now}); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	return &LoginOutput{User: u, Token: issued.Token}, nil
}

type Logout struct {
	sessions session.Store
}

func NewLogout(sessions session.Store) *Logout {
	return &Logout{sessions: sessions}
}

func (uc *Logout) Execute(ctx context.Context, userID uint) error {
	return uc.sessions.Revoke(ctx, userID)
}
