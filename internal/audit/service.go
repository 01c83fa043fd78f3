package audit

import (
	"encoding/json"
	"fmt"

	"fret-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const EntityCashRegisterDay = "cash_register_day"

type LogOptions struct {
	SiteID      *uint
	GroupID     *uint
	UserID      uint
	UserName    string
	CashierID   uint
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Amount      *decimal.Decimal
	Description string
	Before      any
	After       any
}

// WriteLog appends one audit row using db, which is normally the
// transaction of the change being recorded.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		SiteID:      opts.SiteID,
		GroupID:     opts.GroupID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		CashierID:   opts.CashierID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  marshal(opts.Before),
		AfterData:   marshal(opts.After),
	}
	if opts.Amount != nil {
		entry.Amount = decimal.NewNullDecimal(*opts.Amount)
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func marshal(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
