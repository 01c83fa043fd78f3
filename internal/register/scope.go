package register

import "fret-backend/internal/identity"

// SiteScope checks a requested site against the user's roles and returns
// the site to query. Site managers are held to their own site and
// administrators must name one.
func SiteScope(user identity.CurrentUser, requested *uint) (*uint, error) {
	return resolveScopeID(user, identity.RoleSiteManager, user.SiteID, requested)
}

// GroupScope is SiteScope for groups and group administrators.
func GroupScope(user identity.CurrentUser, requested *uint) (*uint, error) {
	return resolveScopeID(user, identity.RoleGroupAdmin, user.GroupID, requested)
}

func resolveScopeID(user identity.CurrentUser, scoped identity.Role, own, requested *uint) (*uint, error) {
	switch {
	case user.HasRole(identity.RoleAdmin):
		if requested == nil {
			return nil, ErrScopeRequired
		}
		return requested, nil
	case user.HasRole(scoped):
		if own == nil {
			return nil, ErrForbiddenScope
		}
		if requested != nil && *requested != *own {
			return nil, ErrForbiddenScope
		}
		return own, nil
	}
	return nil, ErrForbiddenScope
}

// CanSupervise reports whether user may open or close the register of a
// cashier attached to siteID and groupID.
func CanSupervise(user identity.CurrentUser, siteID, groupID *uint) bool {
	switch {
	case user.HasRole(identity.RoleAdmin):
		return true
	case user.HasRole(identity.RoleGroupAdmin) && sameID(user.GroupID, groupID):
		return true
	case user.HasRole(identity.RoleSiteManager) && sameID(user.SiteID, siteID):
		return true
	}
	return false
}

func sameID(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}
