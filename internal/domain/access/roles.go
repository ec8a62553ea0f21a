package access

import "strings"

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleOwner   = "owner"
)

// RoleMap maps a canonical role name to its numeric id. Values are never
// mutated after construction; callers get copies.
type RoleMap struct {
	ids map[string]uint
}

func NewRoleMap(ids map[string]uint) RoleMap {
	m := make(map[string]uint, len(ids))
	for name, id := range ids {
		m[strings.ToLower(strings.TrimSpace(name))] = id
	}
	return RoleMap{ids: m}
}

// DefaultRoles is the mapping seeded into the roles table.
func DefaultRoles() RoleMap {
	return NewRoleMap(map[string]uint{
		RoleAdmin:   1,
		RoleCashier: 2,
		RoleManager: 3,
		RoleOwner:   4,
	})
}

// ID resolves a role name. Lookup is case-insensitive and ignores
// surrounding whitespace.
func (m RoleMap) ID(name string) (uint, bool) {
	id, ok := m.ids[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func (m RoleMap) Name(id uint) (string, bool) {
	for name, v := range m.ids {
		if v == id {
			return name, true
		}
	}
	return "", false
}

// All returns a copy of the mapping.
func (m RoleMap) All() map[string]uint {
	out := make(map[string]uint, len(m.ids))
	for k, v := range m.ids {
		out[k] = v
	}
	return out
}
