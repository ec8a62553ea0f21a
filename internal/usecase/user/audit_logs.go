package user

import (
	"context"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type ListUserAuditLogs struct {
	repo     domain.Repository
	recorder *audit.Recorder
}

func NewListUserAuditLogs(
	repo domain.Repository,
	recorder *audit.Recorder,
) *ListUserAuditLogs {
	return &ListUserAuditLogs{
		repo:     repo,
		recorder: recorder,
	}
}

// Execute returns up to limit records for the subject, newest first.
// Records of deleted users stay readable.
func (uc *ListUserAuditLogs) Execute(
	ctx context.Context,
	userID uint,
	limit int,
) ([]models.UserAuditLog, error) {
	return uc.recorder.With(uc.repo.AuditLogs()).Query(ctx, userID, limit)
}
