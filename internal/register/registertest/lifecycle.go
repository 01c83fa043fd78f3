// Package registertest holds checks every register.Store must pass.
package registertest

import (
	"context"
	"testing"

	"fret-backend/internal/identity"
	"fret-backend/internal/register"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Harness is a fresh store with one cashier and no register yet. Today is
// the date the store treats as today.
type Harness struct {
	Store   register.Store
	Cashier identity.CurrentUser
	Today   register.Date
}

// RunLifecycle drives a cashier through one day and checks the errors a
// store answers on the way.
func RunLifecycle(t *testing.T, newHarness func(t *testing.T) Harness) {
	t.Run("missing register", func(t *testing.T) {
		h := newHarness(t)
		ctx := context.Background()

		_, err := h.Store.Deposit(ctx, h.Cashier, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, register.ErrRegisterClosed)
		assert.True(t, register.IsBusiness(err))

		_, err = h.Store.Withdraw(ctx, h.Cashier, decimal.NewFromInt(10))
		assert.ErrorIs(t, err, register.ErrRegisterClosed)

		_, err = h.Store.Close(ctx, h.Cashier)
		assert.ErrorIs(t, err, register.ErrNoOpenRegister)

		_, err = h.Store.Summary(ctx, h.Cashier, h.Today)
		assert.ErrorIs(t, err, register.ErrNotFound)
	})

	t.Run("open deposit withdraw close", func(t *testing.T) {
		h := newHarness(t)
		ctx := context.Background()

		opened, err := h.Store.Open(ctx, h.Cashier, h.Today)
		require.NoError(t, err)
		assert.Equal(t, h.Today.String(), opened.OperationDate.String())
		assert.False(t, opened.IsClosed)
		start := opened.StartingBalance

		_, err = h.Store.Open(ctx, h.Cashier, h.Today)
		assert.ErrorIs(t, err, register.ErrAlreadyOpen)

		_, err = h.Store.Deposit(ctx, h.Cashier, decimal.NewFromInt(500))
		require.NoError(t, err)
		_, err = h.Store.Withdraw(ctx, h.Cashier, decimal.NewFromInt(200))
		require.NoError(t, err)

		closed, err := h.Store.Close(ctx, h.Cashier)
		require.NoError(t, err)
		assert.True(t, closed.IsClosed)
		assert.Equal(t, 2, closed.NumberOfTransactions)
		assert.True(t, closed.EndingBalance.Equal(start.Add(decimal.NewFromInt(300))),
			"ending %s, start %s", closed.EndingBalance, start)

		_, err = h.Store.Deposit(ctx, h.Cashier, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, register.ErrRegisterClosed)
		_, err = h.Store.Withdraw(ctx, h.Cashier, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, register.ErrRegisterClosed)
		_, err = h.Store.Close(ctx, h.Cashier)
		assert.ErrorIs(t, err, register.ErrAlreadyClosed)
		_, err = h.Store.Open(ctx, h.Cashier, h.Today)
		assert.ErrorIs(t, err, register.ErrAlreadyClosed)

		day, err := h.Store.Summary(ctx, h.Cashier, h.Today)
		require.NoError(t, err)
		assert.True(t, day.IsClosed)
		assert.True(t, day.EndingBalance.Equal(closed.EndingBalance))
		assert.True(t, day.Balanced())
	})
}
