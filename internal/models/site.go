package models

import "time"

// Group is a set of sites under one group administrator.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sites []Site `json:"-"`
}

type Site struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `json:"-"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Users []User `json:"-"`
}
