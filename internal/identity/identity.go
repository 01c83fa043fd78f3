// Package identity carries the authenticated caller through the register
// operations as an explicit value.
package identity

import "strings"

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleGroupAdmin  Role = "ADMIN_GROUPE"
	RoleSiteManager Role = "CSITE"
	RoleCashier     Role = "CAISSIER"
	RoleOperator    Role = "OPERATEUR"
)

// CurrentUser is the caller as decoded from its token.
type CurrentUser struct {
	ID      uint
	Name    string
	Roles   []Role
	SiteID  *uint
	GroupID *uint

	// Token is forwarded as a bearer credential by remote stores.
	Token string
}

func (u CurrentUser) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

func (u CurrentUser) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// IsSupervisor reports whether the user holds a supervisory role.
func (u CurrentUser) IsSupervisor() bool {
	return u.HasAny(RoleAdmin, RoleGroupAdmin, RoleSiteManager)
}

// ParseRoles splits a comma separated role list, dropping blanks and
// unknown values.
func ParseRoles(s string) []Role {
	var roles []Role
	for _, part := range strings.Split(s, ",") {
		r := Role(strings.ToUpper(strings.TrimSpace(part)))
		if r.Valid() {
			roles = append(roles, r)
		}
	}
	return roles
}

// JoinRoles is the inverse of ParseRoles.
func JoinRoles(roles []Role) string {
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ",")
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGroupAdmin, RoleSiteManager, RoleCashier, RoleOperator:
		return true
	}
	return false
}
