package user

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
)

type DeleteUser struct {
	repo            domain.Repository
	recorder        *audit.Recorder
	sessions        session.Store
	protectedRoleID uint
	log             zerolog.Logger
}

func NewDeleteUser(
	repo domain.Repository,
	recorder *audit.Recorder,
	sessions session.Store,
	protectedRoleID uint,
	log zerolog.Logger,
) *DeleteUser {
	return &DeleteUser{
		repo:            repo,
		recorder:        recorder,
		sessions:        sessions,
		protectedRoleID: protectedRoleID,
		log:             log,
	}
}

// Execute writes the delete record and removes the user in one
// transaction. Users holding the protected role are refused before
// anything is written.
func (uc *DeleteUser) Execute(ctx context.Context, id uint) error {
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		u, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if u.RoleID == uc.protectedRoleID {
			return &domain.ProtectedAccountError{UserID: u.ID}
		}

		if err := uc.recorder.With(tx.AuditLogs()).RecordDelete(ctx, id); err != nil {
			return err
		}

		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	revokeSession(ctx, uc.sessions, uc.log, id)
	return nil
}

// revokeSession runs after commit, so a failure is logged rather than
// returned.
func revokeSession(ctx context.Context, sessions session.Store, log zerolog.Logger, userID uint) {
	if sessions == nil {
		return
	}
	if err := sessions.Revoke(ctx, userID); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("session revoke failed")
	}
}
