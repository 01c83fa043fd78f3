package register

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var t0 = time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

func TestNewDay_InheritsPreviousEndingBalance(t *testing.T) {
	first := NewDay(7, NewDate(2025, 5, 1), nil, t0)
	assert.True(t, first.StartingBalance.IsZero())
	assert.True(t, first.EndingBalance.IsZero())
	assert.False(t, first.IsClosed)

	prev := Day{EndingBalance: dec(1250)}
	next := NewDay(7, NewDate(2025, 5, 2), &prev, t0)
	assert.True(t, next.StartingBalance.Equal(dec(1250)))
	assert.True(t, next.EndingBalance.Equal(dec(1250)))
	assert.Equal(t, 0, next.NumberOfTransactions)
	assert.True(t, next.Balanced())
}

func TestDay_Lifecycle(t *testing.T) {
	prev := Day{EndingBalance: dec(100)}
	day := NewDay(7, NewDate(2025, 5, 2), &prev, t0)

	require.NoError(t, day.Deposit(dec(500), t0.Add(time.Minute)))
	require.NoError(t, day.Withdraw(dec(200), AllowNegative, t0.Add(2*time.Minute)))
	require.NoError(t, day.Close(t0.Add(3*time.Minute)))

	assert.True(t, day.EndingBalance.Equal(dec(400)))
	assert.Equal(t, 2, day.NumberOfTransactions)
	assert.True(t, day.IsClosed)
	assert.True(t, day.Balanced())
	assert.Equal(t, t0.Add(3*time.Minute), day.UpdatedAt)

	assert.ErrorIs(t, day.Deposit(dec(1), t0), ErrRegisterClosed)
	assert.ErrorIs(t, day.Withdraw(dec(1), AllowNegative, t0), ErrRegisterClosed)
	assert.ErrorIs(t, day.Close(t0), ErrAlreadyClosed)
}

func TestDay_InvalidAmounts(t *testing.T) {
	day := NewDay(1, NewDate(2025, 5, 2), nil, t0)
	for _, amount := range []decimal.Decimal{dec(0), dec(-5)} {
		assert.ErrorIs(t, day.Deposit(amount, t0), ErrInvalidAmount)
		assert.ErrorIs(t, day.Withdraw(amount, AllowNegative, t0), ErrInvalidAmount)
	}
	assert.Equal(t, 0, day.NumberOfTransactions)
}

func TestDay_BalancePolicy(t *testing.T) {
	day := NewDay(1, NewDate(2025, 5, 2), nil, t0)
	require.NoError(t, day.Deposit(dec(100), t0))

	assert.ErrorIs(t, day.Withdraw(dec(150), RejectNegative, t0), ErrInsufficientBalance)
	assert.True(t, day.EndingBalance.Equal(dec(100)))

	require.NoError(t, day.Withdraw(dec(150), AllowNegative, t0))
	assert.True(t, day.EndingBalance.Equal(dec(-50)))
	assert.True(t, day.Balanced())
}

func TestDay_Reopen(t *testing.T) {
	day := NewDay(1, NewDate(2025, 5, 2), nil, t0)
	assert.ErrorIs(t, day.Reopen(t0), ErrNotClosed)

	require.NoError(t, day.Close(t0))
	require.NoError(t, day.Reopen(t0))
	assert.False(t, day.IsClosed)
	require.NoError(t, day.Deposit(dec(10), t0))
}

func TestErrors_MatchByCode(t *testing.T) {
	fromServer := ErrorFromCode(ErrAlreadyOpen.Code, "Caisse déjà ouverte (serveur)")
	assert.ErrorIs(t, fromServer, ErrAlreadyOpen)
	assert.NotErrorIs(t, fromServer, ErrAlreadyClosed)
	assert.Equal(t, "Caisse déjà ouverte (serveur)", fromServer.Error())

	unknown := ErrorFromCode("SOMETHING_ELSE", "")
	assert.Equal(t, "SOMETHING_ELSE", unknown.Code)
	assert.NotEmpty(t, unknown.Message)
	assert.True(t, IsBusiness(unknown))

	assert.Same(t, ErrNotFound, ErrNotFound.WithMessage(""))
}

func TestErrors_Classification(t *testing.T) {
	assert.True(t, IsBusiness(ErrRegisterClosed))
	assert.False(t, IsUnauthorized(ErrRegisterClosed))

	unauthorized := &TransportError{StatusCode: 401, Err: assert.AnError}
	assert.True(t, IsUnauthorized(unauthorized))
	assert.False(t, IsBusiness(unauthorized))
	assert.ErrorIs(t, unauthorized, assert.AnError)

	server := &TransportError{StatusCode: 502, Err: assert.AnError}
	assert.False(t, IsUnauthorized(server))
	assert.Contains(t, server.Error(), "502")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 409, HTTPStatus(ErrAlreadyOpen))
	assert.Equal(t, 404, HTTPStatus(ErrNotFound))
	assert.Equal(t, 400, HTTPStatus(ErrInvalidRange))
	assert.Equal(t, 403, HTTPStatus(ErrForbiddenScope))
	assert.Equal(t, 422, HTTPStatus(ErrInsufficientBalance))
	assert.Equal(t, 400, HTTPStatus(ErrInvalidFormat))
}

func TestParseExportFormat(t *testing.T) {
	for _, raw := range []string{"pdf", "csv", "xlsx"} {
		f, err := ParseExportFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, ExportFormat(raw), f)
	}

	_, err := ParseExportFormat("docx")
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.True(t, IsBusiness(err))
	assert.Equal(t, ErrInvalidFormat, ErrorFromCode("INVALID_FORMAT", ""))
}
