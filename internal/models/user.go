package models

import (
	"time"

	"fret-backend/internal/identity"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	SiteID       *uint
	Site         *Site
	GroupID      *uint
	Group        *Group
	Name         string `gorm:"size:100;not null"`
	Email        string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Roles        string `gorm:"size:100;not null"` // comma separated, e.g. "CAISSIER,CSITE"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) RoleList() []identity.Role {
	return identity.ParseRoles(u.Roles)
}

// Identity builds the request identity for u. A cashier's group is the
// group of their site.
func (u *User) Identity() identity.CurrentUser {
	cu := identity.CurrentUser{
		ID:      u.ID,
		Name:    u.Name,
		Roles:   u.RoleList(),
		SiteID:  u.SiteID,
		GroupID: u.GroupID,
	}
	if cu.GroupID == nil && u.Site != nil {
		cu.GroupID = u.Site.GroupID
	}
	return cu
}
