package readstore

import (
	"context"
	"time"

	"fieldbook/internal/infra"
	"fieldbook/internal/infra/db"

	"github.com/google/uuid"
)

type WalletView struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BalanceCents int64
	Points       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type TransactionView struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	Type        string
	AmountCents int64
	Points      int64
	Description string
	CreatedAt   time.Time
}

type WalletReadStore struct{}

func NewWalletReadStore() *WalletReadStore {
	return &WalletReadStore{}
}

func (s *WalletReadStore) FindByUserID(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*WalletView, error) {
	query := `
		SELECT id, user_id, balance_cents, points, created_at, updated_at
		FROM wallets WHERE user_id = $1`

	var v WalletView
	err := tx.QueryRow(ctx, query, userID).Scan(
		&v.ID, &v.UserID, &v.BalanceCents, &v.Points, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find wallet view", err)
	}
	return &v, nil
}

func (s *WalletReadStore) ListTransactions(ctx context.Context, tx db.DBTX, walletID uuid.UUID, limit int) ([]*TransactionView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, wallet_id, type, amount_cents, points, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := tx.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list wallet transactions", err)
	}
	defer rows.Close()

	var views []*TransactionView
	for rows.Next() {
		var v TransactionView
		if err := rows.Scan(&v.ID, &v.WalletID, &v.Type, &v.AmountCents, &v.Points,
			&v.Description, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan wallet transaction", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read wallet transactions", err)
	}
	return views, nil
}
