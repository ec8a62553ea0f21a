package user

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
	"github.com/BruksfildServices01/ajo-backend/internal/session"
)

type UpdateUser struct {
	repo     domain.Repository
	recorder *audit.Recorder
	sessions session.Store
	log      zerolog.Logger

	// EmailDomainCheck, when set, must accept the domain of a new email.
	EmailDomainCheck EmailDomainCheck
}

func NewUpdateUser(
	repo domain.Repository,
	recorder *audit.Recorder,
	sessions session.Store,
	log zerolog.Logger,
) *UpdateUser {
	return &UpdateUser{
		repo:     repo,
		recorder: recorder,
		sessions: sessions,
		log:      log,
	}
}

type UpdateResult struct {
	User    *models.User
	Changes domain.Changes
}

// Execute applies the fields of p that differ from the stored user. When
// nothing differs it writes neither the user nor an audit record. A role
// change or a status other than active ends the user's session.
func (uc *UpdateUser) Execute(
	ctx context.Context,
	id uint,
	p domain.Patch,
) (*UpdateResult, error) {

	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		p.Email = &e
	}
	if p.Username != nil {
		u := strings.TrimSpace(*p.Username)
		p.Username = &u
	}
	if p.Status != nil {
		if err := checkStatus(*p.Status); err != nil {
			return nil, err
		}
	}

	var changes domain.Changes

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if p.RoleID != nil {
			if err := checkRole(ctx, tx, *p.RoleID); err != nil {
				return err
			}
		}
		if err := checkUnique(ctx, tx, p.Username, p.Email, id); err != nil {
			return err
		}

		changes = domain.Diff(domain.FieldsOf(current), p)
		if changes.Empty() {
			return nil
		}

		if _, ok := changes["email"]; ok {
			if err := checkEmailDomain(ctx, uc.EmailDomainCheck, *p.Email); err != nil {
				return err
			}
		}

		if err := tx.UpdateColumns(ctx, id, changes.Columns()); err != nil {
			return err
		}

		return uc.recorder.With(tx.AuditLogs()).RecordUpdate(ctx, id, changes)
	})
	if err != nil {
		return nil, err
	}

	if endsSession(changes) {
		revokeSession(ctx, uc.sessions, uc.log, id)
	}

	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &UpdateResult{User: u, Changes: changes}, nil
}

// endsSession reports whether the committed changes take access away from
// the user's current token.
func endsSession(changes domain.Changes) bool {
	if _, ok := changes["role_id"]; ok {
		return true
	}
	if ch, ok := changes["status"]; ok {
		return ch.New != string(models.UserStatusActive)
	}
	return false
}
