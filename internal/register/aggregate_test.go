package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDays() []Day {
	return []Day{
		{CashierID: 1, OperationDate: NewDate(2025, 3, 3), TotalDeposits: dec(100), TotalWithdrawals: dec(20), EndingBalance: dec(80), NumberOfTransactions: 2, IsClosed: true},
		{CashierID: 2, OperationDate: NewDate(2025, 3, 5), TotalDeposits: dec(50), TotalWithdrawals: dec(0), EndingBalance: dec(50), NumberOfTransactions: 1, IsClosed: true},
		{CashierID: 1, OperationDate: NewDate(2025, 3, 10), TotalDeposits: dec(10), TotalWithdrawals: dec(5), EndingBalance: dec(85), NumberOfTransactions: 2},
		{CashierID: 1, OperationDate: NewDate(2025, 4, 1), TotalDeposits: dec(7), TotalWithdrawals: dec(0), EndingBalance: dec(92), NumberOfTransactions: 1},
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate(sampleDays())
	assert.Equal(t, 4, got.Days)
	assert.Equal(t, 2, got.ClosedDays)
	assert.Equal(t, 2, got.OpenDays)
	assert.True(t, got.TotalDeposits.Equal(dec(167)))
	assert.True(t, got.TotalWithdrawals.Equal(dec(25)))
	assert.True(t, got.NetMovement.Equal(dec(142)))
	assert.True(t, got.EndingBalances.Equal(dec(307)))
	assert.Equal(t, 6, got.NumberOfTransactions)

	empty := Aggregate(nil)
	assert.Equal(t, 0, empty.Days)
	assert.True(t, empty.TotalDeposits.IsZero())
}

func TestBucketStart(t *testing.T) {
	wed := NewDate(2025, 3, 5)
	assert.Equal(t, "2025-03-05", BucketStart(wed, PeriodDaily).String())
	assert.Equal(t, "2025-03-03", BucketStart(wed, PeriodWeekly).String())
	assert.Equal(t, "2025-03-01", BucketStart(wed, PeriodMonthly).String())

	sunday := NewDate(2025, 3, 9)
	assert.Equal(t, "2025-03-03", BucketStart(sunday, PeriodWeekly).String())
}

func TestBreakdownBy(t *testing.T) {
	tests := []struct {
		period Period
		labels []string
	}{
		{period: PeriodDaily, labels: []string{"2025-03-03", "2025-03-05", "2025-03-10", "2025-04-01"}},
		{period: PeriodWeekly, labels: []string{"2025-03-03", "2025-03-10", "2025-03-31"}},
		{period: PeriodMonthly, labels: []string{"2025-03-01", "2025-04-01"}},
	}

	days := sampleDays()
	// out of order input
	days[0], days[3] = days[3], days[0]

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			b := BreakdownBy(days, tt.period)
			require.Len(t, b.Buckets, len(tt.labels))
			for i, label := range tt.labels {
				assert.Equal(t, label, b.Buckets[i].Label)
			}
			assert.True(t, b.GrandTotals.TotalDeposits.Equal(dec(167)))
		})
	}

	monthly := BreakdownBy(days, PeriodMonthly)
	assert.True(t, monthly.Buckets[0].Totals.TotalDeposits.Equal(dec(160)))
	assert.Equal(t, 3, monthly.Buckets[0].Totals.Days)
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodWeekly, ParsePeriod("weekly"))
	assert.Equal(t, PeriodMonthly, ParsePeriod("monthly"))
	assert.Equal(t, PeriodDaily, ParsePeriod(""))
	assert.Equal(t, PeriodDaily, ParsePeriod("yearly"))
}

func TestSortByDate(t *testing.T) {
	days := []Day{
		{CashierID: 2, OperationDate: NewDate(2025, 1, 2)},
		{CashierID: 1, OperationDate: NewDate(2025, 1, 2)},
		{CashierID: 3, OperationDate: NewDate(2025, 1, 1)},
	}
	SortByDate(days)
	assert.Equal(t, []uint{3, 1, 2}, []uint{days[0].CashierID, days[1].CashierID, days[2].CashierID})
}
