package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveAmount  = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrNegativePoints     = errors.New("points must be positive")
	ErrInvalidTransaction = errors.New("invalid transaction type")
)

// Transaction is an immutable ledger entry. Once appended it is never
// updated or deleted.
type Transaction struct {
	id          uuid.UUID
	walletID    uuid.UUID
	txType      TransactionType
	amountCents int64
	points      int64
	description string
	createdAt   time.Time
}

func (t Transaction) ID() uuid.UUID         { return t.id }
func (t Transaction) WalletID() uuid.UUID   { return t.walletID }
func (t Transaction) Type() TransactionType { return t.txType }
func (t Transaction) AmountCents() int64    { return t.amountCents }
func (t Transaction) Points() int64         { return t.points }
func (t Transaction) Description() string   { return t.description }
func (t Transaction) CreatedAt() time.Time  { return t.createdAt }

func ReconstructTransaction(
	id, walletID uuid.UUID,
	txType TransactionType,
	amountCents, points int64,
	description string,
	createdAt time.Time,
) Transaction {
	return Transaction{
		id:          id,
		walletID:    walletID,
		txType:      txType,
		amountCents: amountCents,
		points:      points,
		description: description,
		createdAt:   createdAt,
	}
}

// Wallet holds a per-user balance. The balance is a cached running sum of the
// transaction log; both move inside the same DB transaction so they never
// diverge.
type Wallet struct {
	id           uuid.UUID
	userID       uuid.UUID
	balanceCents int64
	points       int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewWallet creates an empty wallet. Wallets are created lazily on a user's
// first credit or debit.
func NewWallet(userID uuid.UUID) *Wallet {
	return &Wallet{
		id:     uuid.New(),
		userID: userID,
	}
}

func ReconstructWallet(id, userID uuid.UUID, balanceCents, points int64, createdAt, updatedAt time.Time) *Wallet {
	return &Wallet{
		id:           id,
		userID:       userID,
		balanceCents: balanceCents,
		points:       points,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (w *Wallet) ID() uuid.UUID       { return w.id }
func (w *Wallet) UserID() uuid.UUID   { return w.userID }
func (w *Wallet) BalanceCents() int64 { return w.balanceCents }
func (w *Wallet) Points() int64       { return w.points }
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time { return w.updatedAt }

// Deposit credits the wallet and returns the ledger entry to append.
func (w *Wallet) Deposit(amountCents int64, description string) (Transaction, error) {
	if amountCents <= 0 {
		return Transaction{}, ErrNonPositiveAmount
	}
	w.balanceCents += amountCents
	return w.newTransaction(TypeDeposit, amountCents, 0, description), nil
}

// Withdraw debits the wallet, failing if the balance cannot cover the amount.
func (w *Wallet) Withdraw(amountCents int64, description string) (Transaction, error) {
	if amountCents <= 0 {
		return Transaction{}, ErrNonPositiveAmount
	}
	if w.balanceCents < amountCents {
		return Transaction{}, ErrInsufficientFunds
	}
	w.balanceCents -= amountCents
	return w.newTransaction(TypeWithdrawal, amountCents, 0, description), nil
}

// Refund is a deposit carrying a human-readable reference (booking or match
// id) for auditability. The ledger does not deduplicate by reference; callers
// must invoke it from a state transition guarded to fire once.
func (w *Wallet) Refund(amountCents int64, reference string) (Transaction, error) {
	return w.Deposit(amountCents, fmt.Sprintf("refund: %s", reference))
}

// AwardPoints credits loyalty points without moving money.
func (w *Wallet) AwardPoints(points int64, description string) (Transaction, error) {
	if points <= 0 {
		return Transaction{}, ErrNegativePoints
	}
	w.points += points
	return w.newTransaction(TypePointsEarned, 0, points, description), nil
}

func (w *Wallet) newTransaction(txType TransactionType, amountCents, points int64, description string) Transaction {
	return Transaction{
		id:          uuid.New(),
		walletID:    w.id,
		txType:      txType,
		amountCents: amountCents,
		points:      points,
		description: description,
	}
}

// CheckBalance verifies the cached balance against the signed sum of the full
// transaction log.
func CheckBalance(w *Wallet, log []Transaction) error {
	var sum int64
	for _, tx := range log {
		if !tx.Type().IsValid() {
			return ErrInvalidTransaction
		}
		sum += SignedAmount(tx.Type(), tx.AmountCents())
	}
	if sum != w.balanceCents {
		return fmt.Errorf("wallet %s balance %d diverged from ledger sum %d", w.id, w.balanceCents, sum)
	}
	if w.balanceCents < 0 {
		return fmt.Errorf("wallet %s balance %d is negative", w.id, w.balanceCents)
	}
	return nil
}
