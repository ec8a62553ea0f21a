package user

import "github.com/BruksfildServices01/ajo-backend/internal/models"

// Fields is the editable part of a user record.
type Fields struct {
	Name     string
	Username string
	Email    string
	RoleID   uint
	Status   models.UserStatus
}

func FieldsOf(u *models.User) Fields {
	return Fields{
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   u.RoleID,
		Status:   u.Status,
	}
}

// Patch holds the fields present in an update request. Nil means absent.
type Patch struct {
	Name     *string
	Username *string
	Email    *string
	RoleID   *uint
	Status   *models.UserStatus
}

// Changes maps a column name to its old and new value.
type Changes map[string]models.FieldChange

// Diff returns the fields of p whose value differs from before. Fields
// absent from p are never reported.
func Diff(before Fields, p Patch) Changes {
	out := Changes{}

	if p.Name != nil && *p.Name != before.Name {
		out["name"] = models.FieldChange{Old: before.Name, New: *p.Name}
	}
	if p.Username != nil && *p.Username != before.Username {
		out["username"] = models.FieldChange{Old: before.Username, New: *p.Username}
	}
	if p.Email != nil && *p.Email != before.Email {
		out["email"] = models.FieldChange{Old: before.Email, New: *p.Email}
	}
	if p.RoleID != nil && *p.RoleID != before.RoleID {
		out["role_id"] = models.FieldChange{Old: before.RoleID, New: *p.RoleID}
	}
	if p.Status != nil && *p.Status != before.Status {
		out["status"] = models.FieldChange{Old: string(before.Status), New: string(*p.Status)}
	}

	return out
}

func (c Changes) Empty() bool {
	return len(c) == 0
}

// Columns converts the changes into a column/value map for a partial update.
func (c Changes) Columns() map[string]any {
	cols := make(map[string]any, len(c))
	for k, v := range c {
		cols[k] = v.New
	}
	return cols
}
