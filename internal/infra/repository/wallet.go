package repository

import (
	"context"
	"time"

	"fieldbook/internal/domain/wallet"
	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

type WalletRepository struct{}

func NewWalletRepository() *WalletRepository {
	return &WalletRepository{}
}

func (r *WalletRepository) FindByUserIDForUpdate(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*wallet.Wallet, error) {
	query := `
		SELECT id, user_id, balance_cents, points, created_at, updated_at
		FROM wallets WHERE user_id = $1
		FOR UPDATE`

	var (
		id, uid              uuid.UUID
		balanceCents, points int64
		createdAt, updatedAt time.Time
	)
	err := tx.QueryRow(ctx, query, userID).Scan(&id, &uid, &balanceCents, &points, &createdAt, &updatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find wallet", err)
	}

	return wallet.ReconstructWallet(id, uid, balanceCents, points, createdAt, updatedAt), nil
}

func (r *WalletRepository) Create(ctx context.Context, tx db.DBTX, w *wallet.Wallet) error {
	query := `INSERT INTO wallets (id, user_id, balance_cents, points) VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(ctx, query, w.ID(), w.UserID(), w.BalanceCents(), w.Points()); err != nil {
		return infra.WrapRepoErr("failed to create wallet", err)
	}
	return nil
}

func (r *WalletRepository) UpdateBalance(ctx context.Context, tx db.DBTX, w *wallet.Wallet) error {
	query := `UPDATE wallets SET balance_cents = $1, points = $2, updated_at = now() WHERE id = $3`
	tag, err := tx.Exec(ctx, query, w.BalanceCents(), w.Points(), w.ID())
	if err != nil {
		return infra.WrapRepoErr("failed to update wallet balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "wallet not found for update")
	}
	return nil
}

func (r *WalletRepository) AppendTransaction(ctx context.Context, tx db.DBTX, entry wallet.Transaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, type, amount_cents, points, description)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		entry.ID(), entry.WalletID(), entry.Type().String(),
		entry.AmountCents(), entry.Points(), entry.Description())
	if err != nil {
		return infra.WrapRepoErr("failed to append wallet transaction", err)
	}
	return nil
}

// HasTransactionDescription reports whether the wallet's ledger already holds
// an entry with this exact description. Top-ups use it to dedupe payment ids.
func (r *WalletRepository) HasTransactionDescription(ctx context.Context, tx db.DBTX, walletID uuid.UUID, description string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM wallet_transactions WHERE wallet_id = $1 AND description = $2)`

	var exists bool
	if err := tx.QueryRow(ctx, query, walletID, description).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check wallet transaction description", err)
	}
	return exists, nil
}

func (r *WalletRepository) SumSignedAmounts(ctx context.Context, tx db.DBTX, walletID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE type
			WHEN 'withdrawal' THEN -amount_cents
			WHEN 'points_earned' THEN 0
			ELSE amount_cents END), 0)
		FROM wallet_transactions WHERE wallet_id = $1`

	var sum int64
	if err := tx.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return 0, infra.WrapRepoErr("failed to sum wallet transactions", err)
	}
	return sum, nil
}
