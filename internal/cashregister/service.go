// Package cashregister serves the cash register API: it is the system of
// record behind register.Store, persisted with gorm.
package cashregister

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fret-backend/internal/audit"
	"fret-backend/internal/identity"
	"fret-backend/internal/models"
	"fret-backend/internal/register"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	policy register.BalancePolicy
	clock  func() time.Time
	log    *zap.Logger
}

type Option func(*Service)

func WithBalancePolicy(p register.BalancePolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:     db,
		policy: register.AllowNegative,
		clock:  time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("cashregister")
	return s
}

var _ register.Store = (*Service)(nil)

func (s *Service) today() register.Date {
	return register.DateOf(s.clock())
}

func (s *Service) Open(ctx context.Context, user identity.CurrentUser, date register.Date) (register.Day, error) {
	if date.IsZero() {
		date = s.today()
	}
	return s.open(ctx, user, user.ID, date, false)
}

// open creates the register of cashierID for date. With reopen set, a
// closed register is reopened instead of refused.
func (s *Service) open(ctx context.Context, actor identity.CurrentUser, cashierID uint, date register.Date, reopen bool) (register.Day, error) {
	var out register.Day
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cashier, err := findCashier(tx, cashierID)
		if err != nil {
			return err
		}
		cu := cashier.Identity()
		if actor.ID != cashierID && !register.CanSupervise(actor, cu.SiteID, cu.GroupID) {
			return register.ErrForbiddenScope
		}

		now := s.clock()
		existing, err := findDay(tx, cashierID, date, true)
		if err != nil {
			return err
		}
		if existing != nil {
			if !existing.IsClosed {
				return register.ErrAlreadyOpen
			}
			if !reopen {
				return register.ErrAlreadyClosed
			}
			before := existing.Day()
			day := before
			if err := day.Reopen(now); err != nil {
				return err
			}
			existing.Apply(day)
			existing.ClosedAt = nil
			if err := saveDay(tx, existing); err != nil {
				return err
			}
			out = existing.Day()
			return s.record(tx, actor, existing, models.AuditActionReopen, nil, before, out)
		}

		previous, err := previousDay(tx, cashierID, date)
		if err != nil {
			return err
		}
		day := register.NewDay(cashierID, date, previous, now)
		row := models.CashRegisterDay{
			CashierID:     cashierID,
			Cashier:       *cashier,
			SiteID:        cu.SiteID,
			GroupID:       cu.GroupID,
			OperationDate: date,
			CreatedAt:     now,
		}
		row.Apply(day)
		if err := tx.Omit("Cashier").Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return register.ErrAlreadyOpen
			}
			return err
		}
		out = row.Day()
		return s.record(tx, actor, &row, models.AuditActionOpen, nil, nil, out)
	})
	if err != nil {
		return register.Day{}, err
	}

	s.log.Info("register opened",
		zap.Uint("cashier_id", cashierID),
		zap.Uint("actor_id", actor.ID),
		zap.String("date", date.String()))
	return out, nil
}

func (s *Service) Deposit(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (register.Day, error) {
	return s.transact(ctx, user, amount, models.AuditActionDeposit, func(d *register.Day, now time.Time) error {
		return d.Deposit(amount, now)
	})
}

func (s *Service) Withdraw(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (register.Day, error) {
	return s.transact(ctx, user, amount, models.AuditActionWithdraw, func(d *register.Day, now time.Time) error {
		return d.Withdraw(amount, s.policy, now)
	})
}

type mutation func(d *register.Day, now time.Time) error

// transact applies one cash movement to today's register of user.
func (s *Service) transact(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal, action models.AuditAction, apply mutation) (register.Day, error) {
	if err := register.ValidateAmount(amount); err != nil {
		return register.Day{}, err
	}

	var out register.Day
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findDay(tx, user.ID, s.today(), true)
		if err != nil {
			return err
		}
		if row == nil {
			// absent and closed registers refuse money alike
			return register.ErrRegisterClosed
		}

		before := row.Day()
		day := before
		if err := apply(&day, s.clock()); err != nil {
			return err
		}
		row.Apply(day)
		if err := saveDay(tx, row); err != nil {
			return err
		}
		out = row.Day()
		return s.record(tx, user, row, action, &amount, before, out)
	})
	if err != nil {
		return register.Day{}, err
	}
	return out, nil
}

func (s *Service) Close(ctx context.Context, user identity.CurrentUser) (register.Day, error) {
	return s.close(ctx, user, user.ID, s.today(), register.ErrNoOpenRegister)
}

func (s *Service) close(ctx context.Context, actor identity.CurrentUser, cashierID uint, date register.Date, missing error) (register.Day, error) {
	var out register.Day
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := findDay(tx, cashierID, date, true)
		if err != nil {
			return err
		}
		if row == nil {
			return missing
		}
		if actor.ID != cashierID && !register.CanSupervise(actor, row.SiteID, row.GroupID) {
			return register.ErrForbiddenScope
		}

		before := row.Day()
		day := before
		now := s.clock()
		if err := day.Close(now); err != nil {
			return err
		}
		row.Apply(day)
		row.ClosedAt = &now
		if err := saveDay(tx, row); err != nil {
			return err
		}
		out = row.Day()
		return s.record(tx, actor, row, models.AuditActionClose, nil, before, out)
	})
	if err != nil {
		return register.Day{}, err
	}

	s.log.Info("register closed",
		zap.Uint("cashier_id", cashierID),
		zap.Uint("actor_id", actor.ID),
		zap.String("date", date.String()),
		zap.String("ending_balance", out.EndingBalance.String()))
	return out, nil
}

func (s *Service) record(tx *gorm.DB, actor identity.CurrentUser, row *models.CashRegisterDay, action models.AuditAction, amount *decimal.Decimal, before, after any) error {
	return audit.WriteLog(tx, audit.LogOptions{
		SiteID:      row.SiteID,
		GroupID:     row.GroupID,
		UserID:      actor.ID,
		UserName:    actor.Name,
		CashierID:   row.CashierID,
		EntityType:  audit.EntityCashRegisterDay,
		EntityID:    row.ID,
		Action:      action,
		Amount:      amount,
		Description: fmt.Sprintf("%s %s", action, row.OperationDate),
		Before:      before,
		After:       after,
	})
}

func (s *Service) Summary(ctx context.Context, user identity.CurrentUser, date register.Date) (register.Day, error) {
	if date.IsZero() {
		date = s.today()
	}
	row, err := findDay(s.db.WithContext(ctx), user.ID, date, false)
	if err != nil {
		return register.Day{}, err
	}
	if row == nil {
		return register.Day{}, register.ErrNotFound
	}
	return row.Day(), nil
}

func (s *Service) SummaryRange(ctx context.Context, user identity.CurrentUser, r register.DateRange) ([]register.Day, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return listDays(s.db.WithContext(ctx), dayFilter{CashierID: &user.ID, Range: r})
}

func (s *Service) SiteSummaries(ctx context.Context, user identity.CurrentUser, siteID *uint, r register.DateRange) ([]register.Day, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	siteID, err := register.SiteScope(user, siteID)
	if err != nil {
		return nil, err
	}
	return listDays(s.db.WithContext(ctx), dayFilter{SiteID: siteID, Range: r})
}

func (s *Service) GroupSummaries(ctx context.Context, user identity.CurrentUser, groupID *uint, r register.DateRange) ([]register.Day, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	groupID, err := register.GroupScope(user, groupID)
	if err != nil {
		return nil, err
	}
	return listDays(s.db.WithContext(ctx), dayFilter{GroupID: groupID, Range: r})
}

// Totals aggregates the registers visible to user per period. Without a
// scope an administrator sees every register.
func (s *Service) Totals(ctx context.Context, user identity.CurrentUser, scope register.Scope, r register.DateRange, p register.Period) (register.Breakdown, error) {
	if err := r.Validate(); err != nil {
		return register.Breakdown{}, err
	}
	f, err := visibleFilter(user, scope.SiteID, scope.GroupID, nil)
	if err != nil {
		return register.Breakdown{}, err
	}
	f.Range = r
	days, err := listDays(s.db.WithContext(ctx), f)
	if err != nil {
		return register.Breakdown{}, err
	}
	return register.BreakdownBy(days, p), nil
}

// OpenFor opens a cashier's register on their behalf, reopening it when
// it was closed.
func (s *Service) OpenFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date register.Date) (register.Day, error) {
	if !user.IsSupervisor() {
		return register.Day{}, register.ErrForbiddenScope
	}
	if date.IsZero() {
		date = s.today()
	}
	return s.open(ctx, user, cashierID, date, true)
}

func (s *Service) CloseFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date register.Date) (register.Day, error) {
	if !user.IsSupervisor() {
		return register.Day{}, register.ErrForbiddenScope
	}
	if date.IsZero() {
		date = s.today()
	}
	return s.close(ctx, user, cashierID, date, register.ErrNotFound)
}

func (s *Service) Export(ctx context.Context, user identity.CurrentUser, format register.ExportFormat, r register.DateRange, f register.ExportFilter) (register.Report, error) {
	if err := r.Validate(); err != nil {
		return register.Report{}, err
	}
	format, err := register.ParseExportFormat(string(format))
	if err != nil {
		return register.Report{}, err
	}

	site, group := f.TargetSiteID, f.TargetGroupID
	if site == nil {
		site = f.SiteID
	}
	if group == nil {
		group = f.GroupID
	}
	filter, err := visibleFilter(user, site, group, f.TargetUserID)
	if err != nil {
		return register.Report{}, err
	}
	filter.Range = r

	days, err := listDays(s.db.WithContext(ctx), filter)
	if err != nil {
		return register.Report{}, err
	}

	data, err := render(format, r, days)
	if err != nil {
		return register.Report{}, fmt.Errorf("render %s report: %w", format, err)
	}
	return register.Report{
		Filename:    format.Filename(r),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// visibleFilter narrows a listing to what user may see. Requested ids
// outside the user's own site or group are refused.
func visibleFilter(user identity.CurrentUser, siteID, groupID, cashierID *uint) (dayFilter, error) {
	f := dayFilter{SiteID: siteID, GroupID: groupID, CashierID: cashierID}

	switch {
	case user.HasRole(identity.RoleAdmin):
		return f, nil
	case user.HasRole(identity.RoleGroupAdmin):
		if user.GroupID == nil || (groupID != nil && *groupID != *user.GroupID) {
			return f, register.ErrForbiddenScope
		}
		f.GroupID = user.GroupID
		return f, nil
	case user.HasRole(identity.RoleSiteManager):
		if user.SiteID == nil || (siteID != nil && *siteID != *user.SiteID) {
			return f, register.ErrForbiddenScope
		}
		f.SiteID = user.SiteID
		return f, nil
	case user.HasRole(identity.RoleCashier):
		if cashierID != nil && *cashierID != user.ID {
			return f, register.ErrForbiddenScope
		}
		return dayFilter{CashierID: &user.ID}, nil
	}
	return f, register.ErrForbiddenScope
}
