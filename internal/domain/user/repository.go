package user

import (
	"context"
	"time"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type ListFilter struct {
	Search   string
	RoleName string
	Status   string
	Since    time.Time
	Sort     string
	Desc     bool
	Page     int
	PerPage  int
}

type Repository interface {
	// Transaction runs fn with a repository bound to one database
	// transaction. An error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Users --------
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetForUpdate reads the user and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uint) (*models.User, error)

	List(ctx context.Context, f ListFilter) ([]models.User, int64, error)

	Create(ctx context.Context, u *models.User) error
	UpdateColumns(ctx context.Context, id uint, cols map[string]any) error
	Delete(ctx context.Context, id uint) error

	// UsernameTaken and EmailTaken ignore the user with id exceptID.
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)

	// -------- Roles --------
	RoleExists(ctx context.Context, roleID uint) (bool, error)

	// -------- Audit --------
	AuditLogs() audit.Store
}
