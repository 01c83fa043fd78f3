package register

import (
	"context"
	"errors"
	"time"

	"fret-backend/internal/identity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OpenPolicy decides what a deposit or withdrawal does when the cashier has
// no register for today.
type OpenPolicy int

const (
	// StrictOpen requires an explicit Open first.
	StrictOpen OpenPolicy = iota
	// AutoOpen opens today's register on the first transaction.
	AutoOpen
)

const (
	opOpen     = "open"
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opClose    = "close"
)

// Manager drives a cashier's register through the store. It validates
// input before any request, refuses duplicate submissions, and reads the
// register back after every mutation. It never retries.
type Manager struct {
	store  Store
	policy OpenPolicy
	clock  func() time.Time
	log    *zap.Logger
	guard  *inflight
}

type Option func(*Manager)

func WithOpenPolicy(p OpenPolicy) Option {
	return func(m *Manager) { m.policy = p }
}

func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		policy: StrictOpen,
		clock:  time.Now,
		log:    zap.NewNop(),
		guard:  newInflight(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("register")
	return m
}

func (m *Manager) today() Date {
	return DateOf(m.clock())
}

// Open opens the cashier's register for date, today when date is zero.
func (m *Manager) Open(ctx context.Context, user identity.CurrentUser, date Date) (Day, error) {
	if date.IsZero() {
		date = m.today()
	}
	release, err := m.guard.acquire(opOpen, user.ID)
	if err != nil {
		return Day{}, err
	}
	defer release()

	day, err := m.store.Open(ctx, user, date)
	if err != nil {
		return Day{}, err
	}
	return m.refetch(ctx, user, day), nil
}

func (m *Manager) Deposit(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (Day, error) {
	return m.transact(ctx, user, opDeposit, amount, m.store.Deposit)
}

func (m *Manager) Withdraw(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (Day, error) {
	return m.transact(ctx, user, opWithdraw, amount, m.store.Withdraw)
}

type transactFunc func(context.Context, identity.CurrentUser, decimal.Decimal) (Day, error)

func (m *Manager) transact(ctx context.Context, user identity.CurrentUser, op string, amount decimal.Decimal, call transactFunc) (Day, error) {
	if err := ValidateAmount(amount); err != nil {
		return Day{}, err
	}
	release, err := m.guard.acquire(op, user.ID)
	if err != nil {
		return Day{}, err
	}
	defer release()

	if m.policy == AutoOpen {
		if err := m.ensureOpen(ctx, user); err != nil {
			return Day{}, err
		}
	}

	day, err := call(ctx, user, amount)
	if err != nil {
		return Day{}, err
	}
	return m.refetch(ctx, user, day), nil
}

// ensureOpen opens today's register when none exists. A closed register is
// left alone; the transaction then fails on the store side.
func (m *Manager) ensureOpen(ctx context.Context, user identity.CurrentUser) error {
	today := m.today()
	_, err := m.store.Summary(ctx, user, today)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	m.log.Info("opening register on first transaction",
		zap.Uint("cashier_id", user.ID),
		zap.String("date", today.String()))
	if _, err := m.store.Open(ctx, user, today); err != nil && !errors.Is(err, ErrAlreadyOpen) {
		return err
	}
	return nil
}

func (m *Manager) Close(ctx context.Context, user identity.CurrentUser) (Day, error) {
	release, err := m.guard.acquire(opClose, user.ID)
	if err != nil {
		return Day{}, err
	}
	defer release()

	day, err := m.store.Close(ctx, user)
	if err != nil {
		return Day{}, err
	}
	return m.refetch(ctx, user, day), nil
}

// refetch reads the register back so the caller never keeps a copy another
// session has already changed. A failed read keeps the mutation's answer.
func (m *Manager) refetch(ctx context.Context, user identity.CurrentUser, day Day) Day {
	fresh, err := m.store.Summary(ctx, user, day.OperationDate)
	if err != nil {
		m.log.Warn("register refetch failed, keeping mutation result",
			zap.Uint("cashier_id", user.ID),
			zap.String("date", day.OperationDate.String()),
			zap.Error(err))
		return day
	}
	return fresh
}

func (m *Manager) Summary(ctx context.Context, user identity.CurrentUser, date Date) (Day, error) {
	if date.IsZero() {
		date = m.today()
	}
	return m.store.Summary(ctx, user, date)
}

func (m *Manager) SummaryRange(ctx context.Context, user identity.CurrentUser, start, end Date) ([]Day, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return m.store.SummaryRange(ctx, user, r)
}

// IsOpen reports whether the cashier has a register for date that is not
// closed. A missing register is not an error here.
func (m *Manager) IsOpen(ctx context.Context, user identity.CurrentUser, date Date) (bool, error) {
	day, err := m.Summary(ctx, user, date)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !day.IsClosed, nil
}

// SiteSummaries lists a site's registers. Site managers are held to their
// own site; administrators must name one.
func (m *Manager) SiteSummaries(ctx context.Context, user identity.CurrentUser, siteID *uint, start, end Date) ([]Day, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	siteID, err := SiteScope(user, siteID)
	if err != nil {
		return nil, err
	}
	return m.store.SiteSummaries(ctx, user, siteID, r)
}

// GroupSummaries is SiteSummaries for a group of sites.
func (m *Manager) GroupSummaries(ctx context.Context, user identity.CurrentUser, groupID *uint, start, end Date) ([]Day, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	groupID, err := GroupScope(user, groupID)
	if err != nil {
		return nil, err
	}
	return m.store.GroupSummaries(ctx, user, groupID, r)
}

// Summaries returns the registers the user is entitled to see: a group
// administrator sees the group, a site manager the site, a cashier their
// own registers, and an administrator the scope they ask for.
func (m *Manager) Summaries(ctx context.Context, user identity.CurrentUser, scope Scope, start, end Date) ([]Day, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch {
	case user.HasRole(identity.RoleAdmin):
		switch {
		case scope.GroupID != nil:
			return m.store.GroupSummaries(ctx, user, scope.GroupID, r)
		case scope.SiteID != nil:
			return m.store.SiteSummaries(ctx, user, scope.SiteID, r)
		}
		return nil, ErrScopeRequired
	case user.HasRole(identity.RoleGroupAdmin):
		return m.GroupSummaries(ctx, user, scope.GroupID, start, end)
	case user.HasRole(identity.RoleSiteManager):
		return m.SiteSummaries(ctx, user, scope.SiteID, start, end)
	case user.HasRole(identity.RoleCashier):
		return m.store.SummaryRange(ctx, user, r)
	}
	return nil, ErrForbiddenScope
}

// OpenFor opens, or reopens, another cashier's register. Only supervisors
// may do so.
func (m *Manager) OpenFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date Date) (Day, error) {
	return m.supervise(ctx, user, opOpen, cashierID, date, m.store.OpenFor)
}

// CloseFor closes another cashier's register.
func (m *Manager) CloseFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date Date) (Day, error) {
	return m.supervise(ctx, user, opClose, cashierID, date, m.store.CloseFor)
}

type superviseFunc func(context.Context, identity.CurrentUser, uint, Date) (Day, error)

func (m *Manager) supervise(ctx context.Context, user identity.CurrentUser, op string, cashierID uint, date Date, call superviseFunc) (Day, error) {
	if !user.IsSupervisor() {
		return Day{}, ErrForbiddenScope
	}
	if date.IsZero() {
		date = m.today()
	}
	release, err := m.guard.acquire(op, cashierID)
	if err != nil {
		return Day{}, err
	}
	defer release()

	return call(ctx, user, cashierID, date)
}

func (m *Manager) Export(ctx context.Context, user identity.CurrentUser, format ExportFormat, start, end Date, filter ExportFilter) (Report, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Report{}, err
	}
	if _, err := ParseExportFormat(string(format)); err != nil {
		return Report{}, err
	}
	return m.store.Export(ctx, user, format, r, filter)
}
