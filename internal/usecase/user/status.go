package user

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
)

type ChangeUserStatus struct {
	repo     domain.Repository
	recorder *audit.Recorder
	sessions session.Store
	log      zerolog.Logger
}

func NewChangeUserStatus(
	repo domain.Repository,
	recorder *audit.Recorder,
	sessions session.Store,
	log zerolog.Logger,
) *ChangeUserStatus {
	return &ChangeUserStatus{
		repo:     repo,
		recorder: recorder,
		sessions: sessions,
		log:      log,
	}
}

// Execute always writes the status and a status_change record, even when
// the status is unchanged.
func (uc *ChangeUserStatus) Execute(
	ctx context.Context,
	id uint,
	status models.UserStatus,
) (*models.User, error) {

	if err := checkStatus(status); err != nil {
		return nil, err
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := tx.GetForUpdate(ctx, id); err != nil {
			return err
		}

		if err := tx.UpdateColumns(ctx, id, map[string]any{"status": status}); err != nil {
			return err
		}

		return uc.recorder.With(tx.AuditLogs()).RecordStatusChange(ctx, id, status)
	})
	if err != nil {
		return nil, err
	}

	if status != models.UserStatusActive {
		revokeSession(ctx, uc.sessions, uc.log, id)
	}

	return uc.repo.GetByID(ctx, id)
}
