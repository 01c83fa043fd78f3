package models

import (
	"time"

	"fret-backend/internal/register"

	"github.com/shopspring/decimal"
)

// CashRegisterDay is the stored form of register.Day. SiteID and GroupID
// are copied from the cashier when the day is opened so scoped listings do
// not depend on later reassignments.
type CashRegisterDay struct {
	ID                   uint `gorm:"primaryKey"`
	CashierID            uint `gorm:"not null;uniqueIndex:idx_register_cashier_date"`
	Cashier              User
	SiteID               *uint           `gorm:"index"`
	GroupID              *uint           `gorm:"index"`
	OperationDate        register.Date   `gorm:"not null;index;uniqueIndex:idx_register_cashier_date"`
	StartingBalance      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDeposits        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalWithdrawals     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	EndingBalance        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	NumberOfTransactions int             `gorm:"not null;default:0"`
	IsClosed             bool            `gorm:"not null;default:false"`
	ClosedAt             *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (CashRegisterDay) TableName() string { return "cash_register_days" }

func (r *CashRegisterDay) Day() register.Day {
	return register.Day{
		ID:                   r.ID,
		CashierID:            r.CashierID,
		CashierName:          r.Cashier.Name,
		SiteID:               r.SiteID,
		GroupID:              r.GroupID,
		OperationDate:        r.OperationDate,
		StartingBalance:      r.StartingBalance,
		TotalDeposits:        r.TotalDeposits,
		TotalWithdrawals:     r.TotalWithdrawals,
		EndingBalance:        r.EndingBalance,
		NumberOfTransactions: r.NumberOfTransactions,
		IsClosed:             r.IsClosed,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// Apply copies the mutable register state from d.
func (r *CashRegisterDay) Apply(d register.Day) {
	r.StartingBalance = d.StartingBalance
	r.TotalDeposits = d.TotalDeposits
	r.TotalWithdrawals = d.TotalWithdrawals
	r.EndingBalance = d.EndingBalance
	r.NumberOfTransactions = d.NumberOfTransactions
	r.IsClosed = d.IsClosed
	r.UpdatedAt = d.UpdatedAt
}
