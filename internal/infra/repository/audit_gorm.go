package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Append(
	ctx context.Context,
	rec *models.UserAuditLog,
) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// LatestForUser returns at most limit records, newest timestamp first and
// the higher id first among equal timestamps.
func (r *AuditLogGormRepository) LatestForUser(
	ctx context.Context,
	userID uint,
	limit int,
) ([]models.UserAuditLog, error) {

	var logs []models.UserAuditLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "timestamp"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}
