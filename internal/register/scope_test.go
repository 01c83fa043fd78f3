package register

import (
	"testing"

	"fret-backend/internal/identity"

	"github.com/stretchr/testify/assert"
)

func TestCanSupervise(t *testing.T) {
	site, otherSite, group := uint(1), uint(2), uint(10)

	tests := []struct {
		name  string
		user  identity.CurrentUser
		site  *uint
		group *uint
		want  bool
	}{
		{"admin anywhere", identity.CurrentUser{Roles: []identity.Role{identity.RoleAdmin}}, &otherSite, nil, true},
		{"group admin in group", identity.CurrentUser{Roles: []identity.Role{identity.RoleGroupAdmin}, GroupID: &group}, &site, &group, true},
		{"group admin outside", identity.CurrentUser{Roles: []identity.Role{identity.RoleGroupAdmin}, GroupID: &group}, &site, nil, false},
		{"site manager own site", identity.CurrentUser{Roles: []identity.Role{identity.RoleSiteManager}, SiteID: &site}, &site, &group, true},
		{"site manager other site", identity.CurrentUser{Roles: []identity.Role{identity.RoleSiteManager}, SiteID: &site}, &otherSite, &group, false},
		{"cashier", identity.CurrentUser{Roles: []identity.Role{identity.RoleCashier}, SiteID: &site}, &site, &group, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanSupervise(tt.user, tt.site, tt.group))
		})
	}
}

func TestSiteScope(t *testing.T) {
	site, other := uint(1), uint(2)
	manager := identity.CurrentUser{Roles: []identity.Role{identity.RoleSiteManager}, SiteID: &site}

	got, err := SiteScope(manager, nil)
	assert.NoError(t, err)
	assert.Equal(t, site, *got)

	_, err = SiteScope(manager, &other)
	assert.ErrorIs(t, err, ErrForbiddenScope)

	_, err = SiteScope(identity.CurrentUser{Roles: []identity.Role{identity.RoleAdmin}}, nil)
	assert.ErrorIs(t, err, ErrScopeRequired)
}
