package cashregister

import (
	"errors"

	"fret-backend/internal/identity"
	"fret-backend/internal/models"
	"fret-backend/internal/register"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dayFilter selects registers for listings and exports. Nil fields do not
// filter.
type dayFilter struct {
	CashierID *uint
	SiteID    *uint
	GroupID   *uint
	Range     register.DateRange
}

func findDay(tx *gorm.DB, cashierID uint, date register.Date, lock bool) (*models.CashRegisterDay, error) {
	q := tx.Preload("Cashier")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row models.CashRegisterDay
	err := q.Where("cashier_id = ? AND operation_date = ?", cashierID, date).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// previousDay is the cashier's latest register before date.
func previousDay(tx *gorm.DB, cashierID uint, date register.Date) (*register.Day, error) {
	var row models.CashRegisterDay
	err := tx.Where("cashier_id = ? AND operation_date < ?", cashierID, date).
		Order("operation_date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	day := row.Day()
	return &day, nil
}

func listDays(tx *gorm.DB, f dayFilter) ([]register.Day, error) {
	q := tx.Preload("Cashier").
		Where("operation_date BETWEEN ? AND ?", f.Range.Start, f.Range.End)
	if f.CashierID != nil {
		q = q.Where("cashier_id = ?", *f.CashierID)
	}
	if f.SiteID != nil {
		q = q.Where("site_id = ?", *f.SiteID)
	}
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}

	var rows []models.CashRegisterDay
	if err := q.Order("operation_date ASC, cashier_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	days := make([]register.Day, 0, len(rows))
	for i := range rows {
		days = append(days, rows[i].Day())
	}
	return days, nil
}

// findCashier loads a user holding the cashier role.
func findCashier(tx *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	err := tx.Preload("Site").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, register.ErrCashierNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.Identity().HasRole(identity.RoleCashier) {
		return nil, register.ErrCashierNotFound
	}
	return &u, nil
}

func saveDay(tx *gorm.DB, row *models.CashRegisterDay) error {
	return tx.Omit(clause.Associations).Save(row).Error
}
