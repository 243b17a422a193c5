package response

import (
	"time"

	"fieldbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletResponse struct {
	UserID       uuid.UUID `json:"userId"`
	BalanceCents int64     `json:"balanceCents"`
	Points       int64     `json:"points"`
}

type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	AmountCents int64     `json:"amountCents"`
	Points      int64     `json:"points"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type WalletDetailResponse struct {
	Wallet       WalletResponse        `json:"wallet"`
	Transactions []TransactionResponse `json:"transactions"`
}

func FromWalletView(v *queries.WalletView) WalletResponse {
	return WalletResponse{
		UserID:       v.UserID,
		BalanceCents: v.BalanceCents,
		Points:       v.Points,
	}
}

func FromWalletDetail(d *queries.WalletDetail) *WalletDetailResponse {
	txs := make([]TransactionResponse, len(d.Transactions))
	for i, t := range d.Transactions {
		txs[i] = TransactionResponse{
			ID:          t.ID,
			Type:        t.Type,
			AmountCents: t.AmountCents,
			Points:      t.Points,
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}
	}
	return &WalletDetailResponse{
		Wallet:       FromWalletView(d.Wallet),
		Transactions: txs,
	}
}
