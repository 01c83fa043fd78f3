package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuditAction string

const (
	AuditActionOpen     AuditAction = "open"
	AuditActionDeposit  AuditAction = "deposit"
	AuditActionWithdraw AuditAction = "withdrawal"
	AuditActionClose    AuditAction = "close"
	AuditActionReopen   AuditAction = "reopen"
)

// AuditLog is append-only: rows are never updated or deleted.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SiteID  *uint `gorm:"index" json:"site_id"`
	GroupID *uint `gorm:"index" json:"group_id"`

	// who acted
	UserID   uint   `gorm:"index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	// whose register
	CashierID uint `gorm:"index" json:"cashier_id"`

	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction         `gorm:"size:20" json:"action"`
	Amount      decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"amount"`
	Description string              `gorm:"size:255" json:"description"`

	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}
