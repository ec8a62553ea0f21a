package access

import (
	"strings"

	"github.com/BruksfildServices01/ajo-backend/internal/httperr"
)

var (
	ErrUnauthenticated = httperr.ErrBusiness("unauthenticated")
	ErrForbidden       = httperr.ErrBusiness("forbidden")
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID uint
	RoleID uint
}

// Gate decides whether an actor may invoke an operation tagged with a
// static list of role names.
type Gate struct {
	allowed    map[uint]struct{}
	unresolved []string
}

// NewGate resolves names against roles. Each name may itself be a
// comma-separated list ("admin, manager"). Unknown names are dropped; a gate
// whose list resolves to nothing denies every actor.
func NewGate(roles RoleMap, names ...string) *Gate {
	g := &Gate{allowed: make(map[uint]struct{})}

	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			id, ok := roles.ID(name)
			if !ok {
				g.unresolved = append(g.unresolved, name)
				continue
			}
			g.allowed[id] = struct{}{}
		}
	}

	return g
}

// Check returns nil when actor may proceed, ErrUnauthenticated when there is
// no actor and ErrForbidden when the actor's role is not allow-listed.
func (g *Gate) Check(actor *Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if _, ok := g.allowed[actor.RoleID]; !ok {
		return ErrForbidden
	}
	return nil
}

// Allows reports whether roleID is in the resolved allow-list.
func (g *Gate) Allows(roleID uint) bool {
	_, ok := g.allowed[roleID]
	return ok
}

// Unresolved lists the configured names that matched no role.
func (g *Gate) Unresolved() []string {
	return append([]string(nil), g.unresolved...)
}

// Empty is true when the allow-list resolved to no role at all.
func (g *Gate) Empty() bool {
	return len(g.allowed) == 0
}
