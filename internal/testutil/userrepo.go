// Package testutil provides in-memory doubles shared by package tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/ajo-backend/internal/audit"
	"github.com/BruksfildServices01/ajo-backend/internal/domain/access"
	domain "github.com/BruksfildServices01/ajo-backend/internal/domain/user"
	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

type state struct {
	users     map[uint]models.User
	roles     map[uint]models.Role
	logs      []models.UserAuditLog
	nextUser  uint
	nextLog   uint
	userWrite int
}

func (s *state) clone() *state {
	cp := &state{
		users:     make(map[uint]models.User, len(s.users)),
		roles:     make(map[uint]models.Role, len(s.roles)),
		logs:      append([]models.UserAuditLog(nil), s.logs...),
		nextUser:  s.nextUser,
		nextLog:   s.nextLog,
		userWrite: s.userWrite,
	}
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.roles {
		cp.roles[k] = v
	}
	return cp
}

// UserRepo implements user.Repository in memory. Transactions run on a
// snapshot that is committed only when fn succeeds, and are serialised.
type UserRepo struct {
	mu  *sync.Mutex
	st  *state
	now func() time.Time

	// Fault injection; checked inside transactions and outside.
	AppendErr error
	DeleteErr error
	UpdateErr error
}

func NewUserRepo() *UserRepo {
	r := &UserRepo{
		mu:  &sync.Mutex{},
		st:  &state{users: map[uint]models.User{}, roles: map[uint]models.Role{}},
		now: time.Now,
	}
	for name, id := range access.DefaultRoles().All() {
		r.st.roles[id] = models.Role{ID: id, Name: name}
	}
	return r
}

// SetClock fixes the timestamps used for created_at / updated_at.
func (r *UserRepo) SetClock(now func() time.Time) {
	r.now = now
}

// Seed stores u as-is (no write is counted) and returns the stored copy.
func (r *UserRepo) Seed(u models.User) models.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == 0 {
		r.st.nextUser++
		u.ID = r.st.nextUser
	} else if u.ID > r.st.nextUser {
		r.st.nextUser = u.ID
	}
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now()
		u.UpdatedAt = u.CreatedAt
	}
	r.st.users[u.ID] = u
	return r.withRole(u)
}

// Writes is the number of committed user inserts, updates and deletes.
func (r *UserRepo) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st.userWrite
}

// Logs returns every committed audit record in insertion order.
func (r *UserRepo) Logs() []models.UserAuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.UserAuditLog(nil), r.st.logs...)
}

// Stored returns the committed user without touching counters.
func (r *UserRepo) Stored(id uint) (models.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.st.users[id]
	return u, ok
}

func (r *UserRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &UserRepo{
		mu:        &sync.Mutex{},
		st:        r.st.clone(),
		now:       r.now,
		AppendErr: r.AppendErr,
		DeleteErr: r.DeleteErr,
		UpdateErr: r.UpdateErr,
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.st = tx.st
	return nil
}

func (r *UserRepo) withRole(u models.User) models.User {
	u.Role = r.st.roles[u.RoleID]
	return u
}

func (r *UserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.st.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u = r.withRole(u)
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.st.users {
		if u.Email == email {
			u = r.withRole(u)
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepo) GetForUpdate(ctx context.Context, id uint) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) List(_ context.Context, f domain.ListFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(f.Search)
	var matched []models.User
	for _, u := range r.st.users {
		u = r.withRole(u)
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.Username), search) {
			continue
		}
		if f.RoleName != "" && u.Role.Name != f.RoleName {
			continue
		}
		if f.Status != "" && string(u.Status) != f.Status {
			continue
		}
		if !f.Since.IsZero() && u.CreatedAt.Before(f.Since) {
			continue
		}
		matched = append(matched, u)
	}

	less := func(a, b models.User) bool {
		switch f.Sort {
		case "name":
			return a.Name < b.Name
		case "username":
			return a.Username < b.Username
		case "email":
			return a.Email < b.Email
		case "id":
			return a.ID < b.ID
		default:
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if f.Desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.PerPage
	if start < 0 || start > len(matched) {
		return []models.User{}, total, nil
	}
	end := start + f.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.nextUser++
	u.ID = r.st.nextUser
	u.CreatedAt = r.now()
	u.UpdatedAt = u.CreatedAt
	r.st.users[u.ID] = *u
	r.st.userWrite++
	return nil
}

func (r *UserRepo) UpdateColumns(_ context.Context, id uint, cols map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.UpdateErr != nil {
		return r.UpdateErr
	}

	u, ok := r.st.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range cols {
		switch k {
		case "name":
			u.Name = v.(string)
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "role_id":
			u.RoleID = v.(uint)
		case "status":
			switch s := v.(type) {
			case string:
				u.Status = models.UserStatus(s)
			case models.UserStatus:
				u.Status = s
			}
		case "last_login":
			t := v.(time.Time)
			u.LastLogin = &t
		}
	}
	u.UpdatedAt = r.now()
	r.st.users[id] = u
	r.st.userWrite++
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	if _, ok := r.st.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.st.users, id)
	r.st.userWrite++
	return nil
}

func (r *UserRepo) UsernameTaken(_ context.Context, username string, exceptID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.st.users {
		if u.ID != exceptID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) EmailTaken(_ context.Context, email string, exceptID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.st.users {
		if u.ID != exceptID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) RoleExists(_ context.Context, roleID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.st.roles[roleID]
	return ok, nil
}

func (r *UserRepo) AuditLogs() audit.Store {
	return auditView{r: r}
}

type auditView struct {
	r *UserRepo
}

func (v auditView) Append(_ context.Context, rec *models.UserAuditLog) error {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()

	if v.r.AppendErr != nil {
		return v.r.AppendErr
	}
	v.r.st.nextLog++
	rec.ID = v.r.st.nextLog
	rec.CreatedAt = v.r.now()
	v.r.st.logs = append(v.r.st.logs, *rec)
	return nil
}

func (v auditView) LatestForUser(_ context.Context, userID uint, limit int) ([]models.UserAuditLog, error) {
	v.r.mu.Lock()
	defer v.r.mu.Unlock()

	var out []models.UserAuditLog
	for _, l := range v.r.st.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
