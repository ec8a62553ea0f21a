package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/ajo-backend/internal/metrics"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

const DefaultQueryLimit = 10

const (
	descCreated = "User created by admin"
	descUpdated = "User updated by admin"
	descDeleted = "User deleted by admin"
)

// Store persists user audit records. Implementations only ever insert and
// read; there is no update or delete.
type Store interface {
	Append(ctx context.Context, rec *models.UserAuditLog) error
	LatestForUser(ctx context.Context, userID uint, limit int) ([]models.UserAuditLog, error)
}

// Recorder writes one immutable record per mutating user action. It is
// synchronous: the caller hands it the store of the transaction that
// performs the mutation, so a failed write fails the mutation.
type Recorder struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

func New(store Store, log zerolog.Logger) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// With returns a recorder sharing r's clock and logger that writes to store.
func (r *Recorder) With(store Store) *Recorder {
	cp := *r
	cp.store = store
	return &cp
}

func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	cp := *r
	cp.now = now
	return &cp
}

func (r *Recorder) RecordCreate(ctx context.Context, subjectID uint) error {
	return r.append(ctx, subjectID, models.AuditActionCreate, models.AuditDetails{
		Description: descCreated,
	})
}

// RecordUpdate appends an update record listing changed fields. An empty
// change set writes nothing.
func (r *Recorder) RecordUpdate(ctx context.Context, subjectID uint, changed map[string]models.FieldChange) error {
	if len(changed) == 0 {
		return nil
	}

	fields := make(map[string]models.FieldChange, len(changed))
	for k, v := range changed {
		fields[k] = v
	}

	return r.append(ctx, subjectID, models.AuditActionUpdate, models.AuditDetails{
		Description:   descUpdated,
		UpdatedFields: fields,
	})
}

func (r *Recorder) RecordDelete(ctx context.Context, subjectID uint) error {
	return r.append(ctx, subjectID, models.AuditActionDelete, models.AuditDetails{
		Description: descDeleted,
	})
}

func (r *Recorder) RecordStatusChange(ctx context.Context, subjectID uint, status models.UserStatus) error {
	return r.append(ctx, subjectID, models.AuditActionStatusChange, models.AuditDetails{
		Description: fmt.Sprintf("Status changed to %s", status),
	})
}

// Query returns the newest records of a subject, newest first. Every call
// reads the store again.
func (r *Recorder) Query(ctx context.Context, subjectID uint, limit int) ([]models.UserAuditLog, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	logs, err := r.store.LatestForUser(ctx, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit query: %w", err)
	}
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *Recorder) append(
	ctx context.Context,
	subjectID uint,
	action models.AuditAction,
	details models.AuditDetails,
) error {

	rec := models.UserAuditLog{
		UserID:     subjectID,
		ActionType: action,
		Details:    details,
		Timestamp:  r.now().UTC(),
	}

	if err := r.store.Append(ctx, &rec); err != nil {
		r.log.Error().
			Err(err).
			Uint("user_id", subjectID).
			Str("action", string(action)).
			Msg("audit append failed")
		return fmt.Errorf("audit %s: %w", action, err)
	}

	metrics.AuditRecordsTotal.WithLabelValues(string(action)).Inc()
	r.log.Debug().
		Uint("user_id", subjectID).
		Str("action", string(action)).
		Uint("audit_id", rec.ID).
		Msg("audit record appended")

	return nil
}
