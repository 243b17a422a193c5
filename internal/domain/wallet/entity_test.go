//go:build unit

package wallet_test

import (
	"testing"

	"fieldbook/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositWithdraw(t *testing.T) {
	t.Run("round trip restores the balance", func(t *testing.T) {
		w := wallet.NewWallet(uuid.New())

		dep, err := w.Deposit(5000, "top-up")
		require.NoError(t, err)
		assert.Equal(t, int64(5000), w.BalanceCents())
		assert.Equal(t, wallet.TypeDeposit, dep.Type())

		wd, err := w.Withdraw(5000, "booking payment")
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.BalanceCents())
		assert.Equal(t, wallet.TypeWithdrawal, wd.Type())

		require.NoError(t, wallet.CheckBalance(w, []wallet.Transaction{dep, wd}))
	})

	t.Run("withdrawal cannot exceed the balance", func(t *testing.T) {
		w := wallet.NewWallet(uuid.New())
		_, err := w.Deposit(1000, "top-up")
		require.NoError(t, err)

		_, err = w.Withdraw(1001, "booking payment")
		require.ErrorIs(t, err, wallet.ErrInsufficientFunds)
		assert.Equal(t, int64(1000), w.BalanceCents())
	})

	t.Run("non-positive amounts are rejected", func(t *testing.T) {
		w := wallet.NewWallet(uuid.New())

		_, err := w.Deposit(0, "zero")
		require.ErrorIs(t, err, wallet.ErrNonPositiveAmount)
		_, err = w.Withdraw(-5, "negative")
		require.ErrorIs(t, err, wallet.ErrNonPositiveAmount)
	})
}

func TestRefund(t *testing.T) {
	w := wallet.NewWallet(uuid.New())

	entry, err := w.Refund(12000, "booking 42")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), w.BalanceCents())
	assert.Equal(t, wallet.TypeDeposit, entry.Type())
	assert.Equal(t, "refund: booking 42", entry.Description())
}

func TestAwardPoints(t *testing.T) {
	w := wallet.NewWallet(uuid.New())

	entry, err := w.AwardPoints(120, "points for booking")
	require.NoError(t, err)
	assert.Equal(t, int64(120), w.Points())
	assert.Equal(t, int64(0), w.BalanceCents())
	assert.Equal(t, wallet.TypePointsEarned, entry.Type())
	assert.Equal(t, int64(0), entry.AmountCents())
	assert.Equal(t, int64(120), entry.Points())

	// Points move no money, so the ledger sum is unchanged.
	require.NoError(t, wallet.CheckBalance(w, []wallet.Transaction{entry}))

	_, err = w.AwardPoints(0, "nothing")
	require.ErrorIs(t, err, wallet.ErrNegativePoints)
}

func TestCheckBalance(t *testing.T) {
	t.Run("detects a diverged cache", func(t *testing.T) {
		w := wallet.NewWallet(uuid.New())
		dep, err := w.Deposit(5000, "top-up")
		require.NoError(t, err)

		// An empty log cannot explain a 5000 balance.
		require.Error(t, wallet.CheckBalance(w, nil))
		require.NoError(t, wallet.CheckBalance(w, []wallet.Transaction{dep}))
	})

	t.Run("signed sum subtracts withdrawals", func(t *testing.T) {
		w := wallet.NewWallet(uuid.New())
		dep, _ := w.Deposit(8000, "top-up")
		wd, _ := w.Withdraw(3000, "match join")
		pts, _ := w.AwardPoints(10, "loyalty")

		assert.Equal(t, int64(5000), w.BalanceCents())
		require.NoError(t, wallet.CheckBalance(w, []wallet.Transaction{dep, wd, pts}))
	})
}

func TestSignedAmount(t *testing.T) {
	assert.Equal(t, int64(100), wallet.SignedAmount(wallet.TypeDeposit, 100))
	assert.Equal(t, int64(-100), wallet.SignedAmount(wallet.TypeWithdrawal, 100))
	assert.Equal(t, int64(0), wallet.SignedAmount(wallet.TypePointsEarned, 100))
}
