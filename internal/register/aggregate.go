package register

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod defaults to daily for anything unrecognised.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodWeekly, PeriodMonthly:
		return Period(s)
	}
	return PeriodDaily
}

// Totals sums a set of register days.
type Totals struct {
	Days                 int             `json:"days"`
	OpenDays             int             `json:"openDays"`
	ClosedDays           int             `json:"closedDays"`
	TotalDeposits        decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals     decimal.Decimal `json:"totalWithdrawals"`
	NetMovement          decimal.Decimal `json:"netMovement"`
	EndingBalances       decimal.Decimal `json:"endingBalances"`
	NumberOfTransactions int             `json:"numberOfTransactions"`
}

// Bucket is the totals of one period, labelled by the first day of that
// period. Weeks start on Monday.
type Bucket struct {
	Label  string `json:"label"`
	Totals Totals `json:"totals"`
}

type Breakdown struct {
	Period      Period   `json:"period"`
	Buckets     []Bucket `json:"buckets"`
	GrandTotals Totals   `json:"grandTotals"`
}

func emptyTotals() Totals {
	return Totals{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		NetMovement:      decimal.Zero,
		EndingBalances:   decimal.Zero,
	}
}

func (t *Totals) add(d Day) {
	t.Days++
	if d.IsClosed {
		t.ClosedDays++
	} else {
		t.OpenDays++
	}
	t.TotalDeposits = t.TotalDeposits.Add(d.TotalDeposits)
	t.TotalWithdrawals = t.TotalWithdrawals.Add(d.TotalWithdrawals)
	t.NetMovement = t.TotalDeposits.Sub(t.TotalWithdrawals)
	t.EndingBalances = t.EndingBalances.Add(d.EndingBalance)
	t.NumberOfTransactions += d.NumberOfTransactions
}

func Aggregate(days []Day) Totals {
	t := emptyTotals()
	for _, d := range days {
		t.add(d)
	}
	return t
}

// BucketStart returns the first day of the period containing d.
func BucketStart(d Date, p Period) Date {
	switch p {
	case PeriodWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case PeriodMonthly:
		return NewDate(d.Year(), d.Month(), 1)
	}
	return d
}

// BreakdownBy groups days per period in ascending order.
func BreakdownBy(days []Day, p Period) Breakdown {
	buckets := make(map[time.Time]*Totals)
	for _, d := range days {
		key := BucketStart(d.OperationDate, p).Time
		t, ok := buckets[key]
		if !ok {
			fresh := emptyTotals()
			t = &fresh
			buckets[key] = t
		}
		t.add(d)
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := Breakdown{Period: p, Buckets: make([]Bucket, 0, len(keys)), GrandTotals: Aggregate(days)}
	for _, k := range keys {
		out.Buckets = append(out.Buckets, Bucket{Label: k.Format(DateLayout), Totals: *buckets[k]})
	}
	return out
}

// SortByDate orders days by date, then cashier.
func SortByDate(days []Day) {
	sort.SliceStable(days, func(i, j int) bool {
		if !days[i].OperationDate.Equal(days[j].OperationDate) {
			return days[i].OperationDate.Before(days[j].OperationDate)
		}
		return days[i].CashierID < days[j].CashierID
	})
}
