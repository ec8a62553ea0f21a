package user

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type CreateInput struct {
	Name     string
	Username string
	Email    string
	Password string
	RoleID   uint
	Status   models.UserStatus
}

type CreateUser struct {
	repo     domain.Repository
	recorder *audit.Recorder

	// EmailDomainCheck, when set, must accept the email's domain.
	EmailDomainCheck EmailDomainCheck
	HashCost         int
}

func NewCreateUser(
	repo domain.Repository,
	recorder *audit.Recorder,
) *CreateUser {
	return &CreateUser{
		repo:     repo,
		recorder: recorder,
		HashCost: bcrypt.DefaultCost,
	}
}

func (uc *CreateUser) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.User, error) {

	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Status == "" {
		in.Status = models.UserStatusActive
	}

	if err := checkStatus(in.Status); err != nil {
		return nil, err
	}
	if err := checkEmailDomain(ctx, uc.EmailDomainCheck, in.Email); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.HashCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		RoleID:       in.RoleID,
		Status:       in.Status,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := checkRole(ctx, tx, in.RoleID); err != nil {
			return err
		}
		if err := checkUnique(ctx, tx, &in.Username, &in.Email, 0); err != nil {
			return err
		}

		if err := tx.Create(ctx, u); err != nil {
			return err
		}

		return uc.recorder.With(tx.AuditLogs()).RecordCreate(ctx, u.ID)
	})
	if err != nil {
		return nil, err
	}

	return uc.repo.GetByID(ctx, u.ID)
}
