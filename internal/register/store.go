package register

import (
	"context"
	"fmt"

	"fret-backend/internal/identity"

	"github.com/shopspring/decimal"
)

// Store is the system of record for registers. Every call acts on behalf
// of user; "today" for Deposit, Withdraw and Close is decided by the store.
type Store interface {
	Open(ctx context.Context, user identity.CurrentUser, date Date) (Day, error)
	Deposit(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (Day, error)
	Withdraw(ctx context.Context, user identity.CurrentUser, amount decimal.Decimal) (Day, error)
	Close(ctx context.Context, user identity.CurrentUser) (Day, error)

	Summary(ctx context.Context, user identity.CurrentUser, date Date) (Day, error)
	SummaryRange(ctx context.Context, user identity.CurrentUser, r DateRange) ([]Day, error)
	SiteSummaries(ctx context.Context, user identity.CurrentUser, siteID *uint, r DateRange) ([]Day, error)
	GroupSummaries(ctx context.Context, user identity.CurrentUser, groupID *uint, r DateRange) ([]Day, error)

	OpenFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date Date) (Day, error)
	CloseFor(ctx context.Context, user identity.CurrentUser, cashierID uint, date Date) (Day, error)

	Export(ctx context.Context, user identity.CurrentUser, format ExportFormat, r DateRange, filter ExportFilter) (Report, error)
}

// Scope is the set of registers a supervisor asks about.
type Scope struct {
	SiteID  *uint
	GroupID *uint
}

// ExportFormat is the file type of a summary report.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat accepts pdf, csv and xlsx. Anything else is
// ErrInvalidFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportPDF, ExportCSV, ExportXLSX:
		return f, nil
	}
	return "", ErrInvalidFormat
}

// ContentType is the MIME type a report of format f is served with.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportPDF:
		return "application/pdf"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename follows the rapport_recettes_{start}_to_{end}.{ext} convention.
func (f ExportFormat) Filename(r DateRange) string {
	return fmt.Sprintf("rapport_recettes_%s_to_%s.%s", r.Start, r.End, f)
}

// ExportFilter narrows an export. Target fields select whose registers are
// listed; SiteID and GroupID carry the caller's supervisory scope.
type ExportFilter struct {
	TargetUserID  *uint
	TargetSiteID  *uint
	TargetGroupID *uint
	SiteID        *uint
	GroupID       *uint
}

// Report is a rendered export, ready to be sent as an attachment.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}
