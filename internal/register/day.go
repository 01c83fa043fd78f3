// Package register holds the daily cash register of a cashier: its state
// transitions, business errors, period aggregation, and the Manager that
// drives those transitions against a remote store.
package register

import (
	"time"

	"github.com/shopspring/decimal"
)

// Day is one cashier's register for one calendar date.
type Day struct {
	ID                   uint            `json:"id"`
	CashierID            uint            `json:"caissierId"`
	CashierName          string          `json:"caissierName"`
	SiteID               *uint           `json:"siteId,omitempty"`
	GroupID              *uint           `json:"groupId,omitempty"`
	OperationDate        Date            `json:"operationDate"`
	StartingBalance      decimal.Decimal `json:"startingBalance"`
	TotalDeposits        decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals     decimal.Decimal `json:"totalWithdrawals"`
	EndingBalance        decimal.Decimal `json:"endingBalance"`
	NumberOfTransactions int             `json:"numberOfTransactions"`
	IsClosed             bool            `json:"isClosed"`
	CreatedAt            time.Time       `json:"creationTimestamp"`
	UpdatedAt            time.Time       `json:"lastUpdateTimestamp"`
}

// BalancePolicy decides whether a withdrawal may take the balance below zero.
type BalancePolicy int

const (
	AllowNegative BalancePolicy = iota
	RejectNegative
)

// NewDay opens a register. The starting balance is the ending balance of
// the previous day, or zero when there is none.
func NewDay(cashierID uint, date Date, previous *Day, now time.Time) Day {
	start := decimal.Zero
	if previous != nil {
		start = previous.EndingBalance
	}
	return Day{
		CashierID:        cashierID,
		OperationDate:    date,
		StartingBalance:  start,
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		EndingBalance:    start,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (d *Day) Deposit(amount decimal.Decimal, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if d.IsClosed {
		return ErrRegisterClosed
	}
	d.TotalDeposits = d.TotalDeposits.Add(amount)
	d.touch(now)
	return nil
}

func (d *Day) Withdraw(amount decimal.Decimal, policy BalancePolicy, now time.Time) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if d.IsClosed {
		return ErrRegisterClosed
	}
	if policy == RejectNegative && d.EndingBalance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}
	d.TotalWithdrawals = d.TotalWithdrawals.Add(amount)
	d.touch(now)
	return nil
}

func (d *Day) Close(now time.Time) error {
	if d.IsClosed {
		return ErrAlreadyClosed
	}
	d.IsClosed = true
	d.EndingBalance = d.expectedEnding()
	d.UpdatedAt = now
	return nil
}

// Reopen is the supervisor path back from CLOSED.
func (d *Day) Reopen(now time.Time) error {
	if !d.IsClosed {
		return ErrNotClosed
	}
	d.IsClosed = false
	d.UpdatedAt = now
	return nil
}

// Balanced reports whether the ending balance matches the totals.
func (d Day) Balanced() bool {
	return d.EndingBalance.Equal(d.expectedEnding())
}

func (d Day) expectedEnding() decimal.Decimal {
	return d.StartingBalance.Add(d.TotalDeposits).Sub(d.TotalWithdrawals)
}

func (d *Day) touch(now time.Time) {
	d.NumberOfTransactions++
	d.EndingBalance = d.expectedEnding()
	d.UpdatedAt = now
}
