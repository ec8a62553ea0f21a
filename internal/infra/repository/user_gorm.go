package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

// Columns a list may be sorted by.
var userSortColumns = map[string]string{
	"id":         "users.id",
	"name":       "users.name",
	"username":   "users.username",
	"email":      "users.email",
	"status":     "users.status",
	"created_at": "users.created_at",
	"updated_at": "users.updated_at",
	"last_login": "users.last_login",
}

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserGormRepository{db: tx})
	})
}

func (r *UserGormRepository) AuditLogs() audit.Store {
	return NewAuditLogGormRepository(r.db)
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *UserGormRepository) GetByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserGormRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserGormRepository) GetForUpdate(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.User, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.User{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.username) LIKE ?",
			like, like, like,
		)
	}

	if f.RoleName != "" {
		q = q.Joins("JOIN roles ON roles.id = users.role_id").
			Where("roles.name = ?", f.RoleName)
	}

	if f.Status != "" {
		q = q.Where("users.status = ?", f.Status)
	}

	if !f.Since.IsZero() {
		q = q.Where("users.created_at >= ?", f.Since)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	col, ok := userSortColumns[f.Sort]
	if !ok {
		col = userSortColumns["created_at"]
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var users []models.User
	if err := q.Session(&gorm.Session{}).
		Preload("Role").
		Order(clause.OrderByColumn{Column: clause.Column{Name: col, Raw: true}, Desc: f.Desc}).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *UserGormRepository) UsernameTaken(
	ctx context.Context,
	username string,
	exceptID uint,
) (bool, error) {
	return r.taken(ctx, "username", username, exceptID)
}

func (r *UserGormRepository) EmailTaken(
	ctx context.Context,
	email string,
	exceptID uint,
) (bool, error) {
	return r.taken(ctx, "email", email, exceptID)
}

func (r *UserGormRepository) taken(
	ctx context.Context,
	column string,
	value string,
	exceptID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, exceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserGormRepository) RoleExists(
	ctx context.Context,
	roleID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("id = ?", roleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *UserGormRepository) Create(
	ctx context.Context,
	u *models.User,
) error {
	return r.db.WithContext(ctx).Omit("Role").Create(u).Error
}

func (r *UserGormRepository) UpdateColumns(
	ctx context.Context,
	id uint,
	cols map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: id}).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserGormRepository) Delete(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
